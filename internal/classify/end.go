// Package classify implements the rule-based text classifiers used by the
// dialogue controller.
package classify

import "strings"

var endTriggers = []string{"bye", "exit", "quit", "stop", "thank you", "thanks", "done", "end"}

// IsExactEndTrigger reports whether text, once lower-cased and stripped of
// surrounding spaces and ".,!", is exactly one of the end triggers.
func IsExactEndTrigger(text string) bool {
	t := strings.Trim(strings.ToLower(strings.TrimSpace(text)), ".,!")
	if t == "" {
		return false
	}
	for _, trigger := range endTriggers {
		if t == trigger {
			return true
		}
	}
	return false
}

// ContainsEndTrigger reports whether any end trigger appears anywhere in text.
// It is deliberately looser than IsExactEndTrigger: "bye the way" matches.
func ContainsEndTrigger(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	for _, trigger := range endTriggers {
		if strings.Contains(t, trigger) {
			return true
		}
	}
	return false
}
