package profile

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spigell/talentscout/internal/i18n"
)

func TestFieldsFilledInOrder(t *testing.T) {
	t.Parallel()

	var p Profile
	answers := []string{"Alex Doe", "alex@example.com", "+1 555 123 4567", "Backend Engineer", "5", "Berlin", "Go, PostgreSQL"}

	for i, answer := range answers {
		next, ok := p.Next()
		if !ok {
			t.Fatalf("profile complete too early at %d", i)
		}
		if next != Fields[i] {
			t.Fatalf("expected next field %s, got %s", Fields[i], next)
		}
		if err := p.Set(next, "  "+answer+"  "); err != nil {
			t.Fatalf("set %s: %v", next, err)
		}
		if got := p.Get(next); got != answer {
			t.Fatalf("expected trimmed %q, got %q", answer, got)
		}
	}

	if _, ok := p.Next(); ok {
		t.Fatalf("expected profile to be complete")
	}
	if !p.Complete() || p.Completion() != 1 {
		t.Fatalf("expected full completion, got %v", p.Completion())
	}
}

func TestSetGuards(t *testing.T) {
	t.Parallel()

	var p Profile

	if err := p.Set(FullName, "   "); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
	if err := p.Set(Email, "a@b.c"); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	if err := p.Set(Field("nickname"), "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	if err := p.Set(FullName, "Alex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Set(FullName, "Someone Else"); !errors.Is(err, ErrAlreadyFilled) {
		t.Fatalf("expected ErrAlreadyFilled, got %v", err)
	}
	if got := p.Get(FullName); got != "Alex" {
		t.Fatalf("filled field changed to %q", got)
	}

	if got := p.Completion(); got != 1.0/7.0 {
		t.Fatalf("unexpected completion %v", got)
	}
}

func TestValuesMarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	var p Profile
	_ = p.Set(FullName, "Alex")

	data, err := json.Marshal(p.Values())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"full_name":"Alex","email":"","phone":"","desired_positions":"","years_of_experience":"","current_location":"","tech_stack":""}`
	if string(data) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", data, want)
	}
}

func TestPromptKeys(t *testing.T) {
	t.Parallel()

	for _, f := range Fields {
		if f.PromptKey() == "" || f.Label() == "" {
			t.Fatalf("field %s lacks prompt key or label", f)
		}
		if i18n.Text(i18n.English, f.PromptKey()) == "" {
			t.Fatalf("field %s prompt has no english text", f)
		}
	}
}
