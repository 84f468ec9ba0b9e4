package question

import (
	"regexp"
	"strings"
)

var techSeparators = regexp.MustCompile(`(?i)[,/|;]+|\band\b|\+`)

// DefaultTechnologies is used when the candidate listed nothing usable.
var DefaultTechnologies = []string{"General Programming"}

// ParseTechStack splits free text on commas, slashes, pipes, semicolons,
// the word "and" and "+". Duplicates are dropped case-insensitively and the
// first spelling wins.
func ParseTechStack(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range techSeparators.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, part)
	}
	return out
}
