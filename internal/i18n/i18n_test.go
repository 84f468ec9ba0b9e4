package i18n

import "testing"

func TestTextFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	if got := Text(Spanish, KeyEnd); got != translations[Spanish][KeyEnd] {
		t.Fatalf("expected spanish closing message, got %q", got)
	}

	// The language negotiation prompts only exist in English.
	if got, want := Text(Hindi, KeyLanguageRetry), translations[English][KeyLanguageRetry]; got != want {
		t.Fatalf("expected english fallback %q, got %q", want, got)
	}

	if got := Text(Language("Klingon"), KeyAskName); got != "First, what is your full name?" {
		t.Fatalf("expected english fallback for unknown language, got %q", got)
	}

	if got := Text(French, Key("missing")); got != "" {
		t.Fatalf("expected empty string for unknown key, got %q", got)
	}
}

func TestEveryLanguageHasCorePrompts(t *testing.T) {
	t.Parallel()

	keys := []Key{KeyGreeting, KeyAskName, KeyAskEmail, KeyAskPhone, KeyAskRole, KeyAskExperience, KeyAskLocation, KeyAskTechStack, KeyEnd, KeyWait, KeyDownload}
	for _, lang := range Languages {
		for _, key := range keys {
			if translations[lang][key] == "" {
				t.Fatalf("%s is missing %s", lang, key)
			}
		}
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	if lang, ok := ParseLanguage("  french "); !ok || lang != French {
		t.Fatalf("expected French, got %q (%v)", lang, ok)
	}
	if _, ok := ParseLanguage("german"); ok {
		t.Fatalf("expected german to be unsupported")
	}
}
