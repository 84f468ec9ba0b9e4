package question

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/i18n"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
	panics  bool
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, messages[0].Content)
	if s.panics {
		panic("provider bug")
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ []ai.Message, _ ai.Options) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func newTestGenerator(c ai.Completer) *Generator {
	return New(c, Config{Timeout: time.Second}, rand.New(rand.NewSource(1)), nil)
}

func TestParseTechStack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{input: "Python, SQL, React", want: []string{"Python", "SQL", "React"}},
		{input: "Go/Rust | C++; Java and Kotlin", want: []string{"Go", "Rust", "C", "Java", "Kotlin"}},
		{input: "Node.js + TypeScript + node.js", want: []string{"Node.js", "TypeScript"}},
		{input: "Android AND Swift", want: []string{"Android", "Swift"}},
		{input: " , ; ", want: nil},
		{input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseTechStack(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseTechStack(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateUsesModelAnswer(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"  \"Q1: What is a goroutine?\"  "}}
	g := newTestGenerator(c)

	res := g.Generate(context.Background(), "Go", nil, i18n.Spanish)
	if res.Source != SourceModel {
		t.Fatalf("expected model source, got %s", res.Source)
	}
	if res.Text != "What is a goroutine?" {
		t.Fatalf("expected cleaned question, got %q", res.Text)
	}
	if res.Technology != "Go" {
		t.Fatalf("expected technology Go, got %q", res.Technology)
	}
	if want := "Ask a specific technical question about 'Go' in Spanish. Short and direct."; c.prompts[0] != want {
		t.Fatalf("unexpected prompt %q", c.prompts[0])
	}
}

func TestGenerateRetriesDuplicatesAndErrors(t *testing.T) {
	asked := []string{"What is a goroutine?"}
	c := &scriptedCompleter{
		replies: []string{"What is a goroutine?", "", "", "How do channels close?"},
		errs:    []error{nil, errors.New("timeout"), nil, nil},
	}
	g := newTestGenerator(c)

	res := g.Generate(context.Background(), "Go", asked, i18n.English)
	if res.Text != "How do channels close?" {
		t.Fatalf("unexpected question %q", res.Text)
	}
	if res.Failures != 3 || c.calls != 4 {
		t.Fatalf("expected 3 failures over 4 calls, got %d failures, %d calls", res.Failures, c.calls)
	}
}

func TestGenerateFallsBackAfterMaxAttempts(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"dup", "dup", "dup", "dup", "dup", "fresh"}}
	g := newTestGenerator(c)

	res := g.Generate(context.Background(), "Go", []string{"dup"}, i18n.English)
	if c.calls != MaxAttempts {
		t.Fatalf("expected %d model calls, got %d", MaxAttempts, c.calls)
	}
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
	if res.Text != "How do you handle debugging in Go?" {
		t.Fatalf("unexpected fallback %q", res.Text)
	}
}

func TestGenerateSurvivesPanicsAndTimeouts(t *testing.T) {
	res := newTestGenerator(&scriptedCompleter{panics: true}).Generate(context.Background(), "", nil, i18n.English)
	if res.Source != SourceFallback || res.Text != "How do you handle debugging in General Programming?" {
		t.Fatalf("unexpected result after panics: %+v", res)
	}

	g := New(blockingCompleter{}, Config{Timeout: 5 * time.Millisecond}, rand.New(rand.NewSource(1)), nil)
	res = g.Generate(context.Background(), "Go", nil, i18n.English)
	if res.Source != SourceFallback || res.Failures != MaxAttempts {
		t.Fatalf("expected fallback after timeouts, got %+v", res)
	}
}

func TestFallbackNeverRepeats(t *testing.T) {
	g := New(nil, Config{}, rand.New(rand.NewSource(7)), nil)

	var asked []string
	for i := 0; i < 12; i++ {
		res := g.Generate(context.Background(), "Go", asked, i18n.English)
		if strings.TrimSpace(res.Text) == "" {
			t.Fatalf("empty question at %d", i)
		}
		for _, q := range asked {
			if q == res.Text {
				t.Fatalf("duplicate question %q at %d", q, i)
			}
		}
		asked = append(asked, res.Text)
	}
}

func TestFallbackReportsTechnologyUsed(t *testing.T) {
	t.Parallel()

	asked := func(qs ...string) map[string]struct{} {
		seen := make(map[string]struct{}, len(qs))
		for _, q := range qs {
			seen[q] = struct{}{}
		}
		return seen
	}
	techs := []string{"Go", "Python"}

	tests := []struct {
		name     string
		tech     string
		seen     map[string]struct{}
		wantText string
		wantTech string
	}{
		{
			name:     "primary",
			tech:     "Python",
			seen:     asked(),
			wantText: "How do you handle debugging in Python?",
			wantTech: "Python",
		},
		{
			name:     "walks to another technology",
			tech:     "Go",
			seen:     asked("How do you handle debugging in Go?"),
			wantText: "How do you handle debugging in Python?",
			wantTech: "Python",
		},
		{
			name: "numbered follow-up",
			tech: "Python",
			seen: asked(
				"How do you handle debugging in Go?",
				"How do you handle debugging in Python?",
				"What are common performance pitfalls in Go, and how do you avoid them?",
				"What are common performance pitfalls in Python, and how do you avoid them?",
				"How do you write tests for code that uses Go?",
				"How do you write tests for code that uses Python?",
				"Describe a challenging problem you solved using Go.",
				"Describe a challenging problem you solved using Python.",
			),
			wantText: "How do you handle debugging in Python? (follow-up 2)",
			wantTech: "Python",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, tech := fallback(tt.tech, techs, tt.seen)
			if text != tt.wantText || tech != tt.wantTech {
				t.Fatalf("fallback() = (%q, %q), want (%q, %q)", text, tech, tt.wantText, tt.wantTech)
			}
		})
	}
}

func TestGenerateFallbackTechnologyMatchesQuestion(t *testing.T) {
	g := New(nil, Config{}, rand.New(rand.NewSource(3)), nil)
	asked := []string{
		"How do you handle debugging in Go?",
		"How do you handle debugging in Python?",
	}

	for i := 0; i < 5; i++ {
		res := g.Generate(context.Background(), "Go, Python", asked, i18n.English)
		if res.Source != SourceFallback {
			t.Fatalf("expected fallback source, got %s", res.Source)
		}
		if res.Text != "What are common performance pitfalls in Go, and how do you avoid them?" {
			t.Fatalf("unexpected fallback %q", res.Text)
		}
		if res.Technology != "Go" {
			t.Fatalf("technology = %q, want Go for %q", res.Technology, res.Text)
		}
	}
}

func TestCleanQuestion(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"```\nHow does GC work?\n```": "How does GC work?",
		"Question 2: Explain joins.":  "Explain joins.",
		"“What is a closure?”":        "What is a closure?",
		"   ":                         "",
		"Query planners: how do they pick indexes?": "Query planners: how do they pick indexes?",
	}

	for input, want := range tests {
		if got := cleanQuestion(input); got != want {
			t.Fatalf("cleanQuestion(%q) = %q, want %q", input, got, want)
		}
	}
}
