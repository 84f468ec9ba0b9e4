package classify

import "strings"

// Sentiment is the label attached to a candidate turn.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

var (
	positiveWords = []string{
		"yes", "sure", "confident", "good", "great", "love", "proficient", "experienced", "excited",
		"definitely", "absolutely", "strong", "enjoy", "passionate", "proud", "expert", "skilled", "start",
	}
	negativeWords = []string{
		"no", "not", "bad", "hate", "struggle", "unsure", "weak", "never", "confused",
		"difficult", "boring", "scared", "worst", "don't know",
	}
)

// ClassifySentiment scores text against the positive and negative lexicons.
// Matching is case-insensitive substring containment, so "unsure" counts
// for both "sure" and "unsure".
func ClassifySentiment(text string) Sentiment {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return Neutral
	}

	pos := countHits(t, positiveWords)
	neg := countHits(t, negativeWords)

	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
