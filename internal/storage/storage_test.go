package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/talentscout/internal/profile"
)

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"jsmith@example.com": "j***@example.com",
		"@example.com":       "***@example.com",
		"not-an-email":       "not-an-email",
		"":                   "",
		"élodie@exemple.fr":  "é***@exemple.fr",
	}
	for input, want := range tests {
		if got := MaskEmail(input); got != want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"+1 (555) 123-4567": "*******4567",
		"1234":              "****",
		"12":                "**",
		"call me":           "",
		"":                  "",
	}
	for input, want := range tests {
		if got := MaskPhone(input); got != want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestHashEmail(t *testing.T) {
	t.Parallel()

	if HashEmail("   ") != nil {
		t.Fatalf("expected nil hash for blank email")
	}

	a := HashEmail(" JSmith@Example.com ")
	b := HashEmail("jsmith@example.com")
	if a == nil || b == nil || *a != *b {
		t.Fatalf("expected normalized hashes to match")
	}
	if len(*a) != 64 {
		t.Fatalf("expected hex sha256, got %q", *a)
	}
}

func testValues() profile.Values {
	return profile.Values{
		profile.FullName:          "Jane Smith",
		profile.Email:             "jsmith@example.com",
		profile.Phone:             "+1 (555) 123-4567",
		profile.DesiredPositions:  "Backend Engineer",
		profile.YearsOfExperience: "6",
		profile.CurrentLocation:   "Lisbon",
		profile.TechStack:         "Go, Postgres",
	}
}

func TestNewRecordMasksAndEncodes(t *testing.T) {
	t.Parallel()

	values := testValues()
	now := time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.FixedZone("CET", 3600))
	rec := NewRecord("sess-1", values, []Message{{Role: "user", Content: "bye <3"}}, now)

	if rec.Timestamp != "2024-03-01T09:30:00.123456Z" {
		t.Fatalf("unexpected timestamp %q", rec.Timestamp)
	}
	if rec.Profile[profile.Email] != "j***@example.com" || rec.Profile[profile.Phone] != "*******4567" {
		t.Fatalf("expected masked contact fields, got %+v", rec.Profile)
	}
	if values[profile.Email] != "jsmith@example.com" {
		t.Fatalf("input values must not be mutated")
	}

	data, err := rec.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	line := string(data)
	if strings.Contains(line, "\n") {
		t.Fatalf("record must be a single line: %s", line)
	}
	if !strings.HasPrefix(line, `{"session_id":"sess-1","timestamp":"2024-03-01T09:30:00.123456Z","hashed_email":"`) {
		t.Fatalf("unexpected field order: %s", line)
	}
	if strings.Contains(line, "jsmith@") || strings.Contains(line, "123-4567") {
		t.Fatalf("raw contact data leaked: %s", line)
	}

	hashed, p, err := DecodeProfile(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hashed != *HashEmail("jsmith@example.com") {
		t.Fatalf("unexpected hashed email %q", hashed)
	}
	if p.FullName != "Jane Smith" || p.TechStack != "Go, Postgres" || p.SessionID != "sess-1" {
		t.Fatalf("unexpected decoded profile %+v", p)
	}
}

func TestNewRecordWithoutEmail(t *testing.T) {
	t.Parallel()

	rec := NewRecord("sess-2", profile.Values{profile.FullName: "Jo"}, nil, time.Now())
	data, err := rec.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"hashed_email":null`) {
		t.Fatalf("expected null hashed email: %s", data)
	}
	if !strings.Contains(string(data), `"transcript":[]`) {
		t.Fatalf("expected empty transcript array: %s", data)
	}
}

func TestDecodeProfileWeakTypes(t *testing.T) {
	t.Parallel()

	line := `{"session_id":"old","timestamp":"2023-01-01T00:00:00.000000Z","hashed_email":null,"profile":{"full_name":"Ravi","years_of_experience":4.5}}`
	hashed, p, err := DecodeProfile([]byte(line))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hashed != "" {
		t.Fatalf("expected empty hash, got %q", hashed)
	}
	if p.YearsOfExperience != "4.5" {
		t.Fatalf("expected numeric experience to be coerced, got %q", p.YearsOfExperience)
	}
}

func TestEncodeKeepsHTMLCharacters(t *testing.T) {
	values := profile.Values{profile.DesiredPositions: "R&D <lead>", profile.CurrentLocation: "Zürich"}
	transcript := []Message{{Role: "user", Content: "R&D <lead>"}}

	data, err := NewRecord("s", values, transcript, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	line := string(data)
	for _, want := range []string{
		`"desired_positions":"R&D <lead>"`,
		`"current_location":"Zürich"`,
		`"content":"R&D <lead>"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
	if strings.Contains(line, `\u0026`) || strings.Contains(line, `\u003c`) {
		t.Fatalf("record must not escape HTML characters: %s", line)
	}
}
