package classify

import (
	"strings"
	"unicode"

	"github.com/spigell/talentscout/internal/i18n"
)

var languageKeywords = []struct {
	lang     i18n.Language
	keywords []string
}{
	{i18n.English, []string{"english", "eng", "inglés"}},
	{i18n.Spanish, []string{"spanish", "español", "esp", "castellano"}},
	{i18n.French, []string{"french", "français", "francais"}},
	{i18n.Hindi, []string{"hindi", "hind", "हिंदी"}},
}

// DetectLanguage maps a free-text language choice to a supported language.
// Sets are checked in order, so the first matching language wins.
func DetectLanguage(text string) (i18n.Language, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}
	for _, entry := range languageKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.lang, true
			}
		}
	}
	return "", false
}

var affirmatives = map[i18n.Language][]string{
	i18n.English: {"yes", "y", "yeah", "start", "sure", "ok", "okay", "go", "ready"},
	i18n.Spanish: {"sí", "si", "empezar", "empecemos", "vamos", "claro", "listo"},
	i18n.French:  {"oui", "commencer", "commençons", "allons", "prêt", "prête"},
	i18n.Hindi:   {"haan", "han", "shuru", "हाँ", "हां", "शुरू"},
}

// IsAffirmative reports whether text contains a word agreeing to start the
// interview. English tokens are accepted for every language.
func IsAffirmative(lang i18n.Language, text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r)
	})
	if len(words) == 0 {
		return false
	}

	accepted := make(map[string]struct{})
	for _, w := range affirmatives[i18n.English] {
		accepted[w] = struct{}{}
	}
	for _, w := range affirmatives[lang] {
		accepted[w] = struct{}{}
	}

	for _, w := range words {
		if _, ok := accepted[w]; ok {
			return true
		}
	}
	return false
}
