package classify

import (
	"context"
	"strings"

	"github.com/rbarbosa/sentiq/internal/contracts"
)

// StaticClassifier is a keyword-count fallback used when no inference
// service is configured. It keeps the pipeline runnable offline; the
// labels are crude and only the sign matters.
type StaticClassifier struct {
	positive []string
	negative []string
}

// Default Portuguese financial-news lexicon for offline runs.
var (
	DefaultPositive = []string{
		"lucro", "alta", "recorde", "crescimento", "dispara", "supera",
		"avanço", "valorização", "dividendos",
	}
	DefaultNegative = []string{
		"queda", "prejuízo", "perda", "despenca", "tombo", "crise",
		"recuo", "desvalorização", "calote",
	}
)

// NewDefaultStaticClassifier creates a classifier with the default
// lexicon.
func NewDefaultStaticClassifier() *StaticClassifier {
	return NewStaticClassifier(DefaultPositive, DefaultNegative)
}

// NewStaticClassifier creates a classifier over the given keyword
// lists. Matching is case-insensitive substring.
func NewStaticClassifier(positive, negative []string) *StaticClassifier {
	lower := func(words []string) []string {
		out := make([]string, len(words))
		for i, w := range words {
			out[i] = strings.ToLower(w)
		}
		return out
	}
	return &StaticClassifier{positive: lower(positive), negative: lower(negative)}
}

// Classify labels text by comparing positive and negative keyword hits.
func (c *StaticClassifier) Classify(_ context.Context, text string) (contracts.Sentiment, error) {
	lowered := strings.ToLower(text)

	var pos, neg int
	for _, w := range c.positive {
		pos += strings.Count(lowered, w)
	}
	for _, w := range c.negative {
		neg += strings.Count(lowered, w)
	}

	switch {
	case pos > neg:
		return contracts.SentimentPositive, nil
	case neg > pos:
		return contracts.SentimentNegative, nil
	default:
		return contracts.SentimentNeutral, nil
	}
}
