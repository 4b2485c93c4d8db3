package contracts

import (
	"strings"
	"time"
)

// Sentiment is the label produced by the classifier collaborator.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentUnknown  Sentiment = "UNKNOWN"
)

// Score maps a sentiment label to its signal contribution.
// POSITIVE -> +1, NEGATIVE -> -1, everything else -> 0.
func (s Sentiment) Score() int {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// ParseSentiment normalizes a raw label into a Sentiment.
// Unrecognized labels become SentimentUnknown, never an error.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE":
		return SentimentPositive
	case "NEGATIVE":
		return SentimentNegative
	case "NEUTRAL":
		return SentimentNeutral
	default:
		return SentimentUnknown
	}
}

// RawRecord is the input schema produced by the crawling collaborator.
// Date arrives either as free text or as a unix epoch number, so it is
// kept untyped until normalization.
type RawRecord struct {
	Title   string      `json:"title"`
	URL     string      `json:"url"`
	Date    interface{} `json:"date"`
	Content string      `json:"content"`
	Source  string      `json:"source"`
}

// NewsRecord is the persisted, enriched corpus record.
// It is immutable once sentiment-labeled; the resolver attaches tickers
// later, and corrections replace the record wholesale.
type NewsRecord struct {
	Title          string      `json:"title"`
	URL            string      `json:"url"`
	RawDate        interface{} `json:"date"`
	Content        string      `json:"content"`
	Source         string      `json:"source"`
	CombinedText   string      `json:"combined_text"`
	NormalizedDate *time.Time  `json:"normalized_date"` // nil when unparseable
	Sentiment      Sentiment   `json:"sentiment"`
	Organizations  []string    `json:"organizations"`
	Tickers        []string    `json:"tickers"`

	// Closing price per referenced ticker on the record's day, filled by
	// the market-data stage when available. nil value = no quote that day.
	PriceOnDay map[string]*float64 `json:"price_on_day,omitempty"`
}

// Key returns the deduplication key: the whitespace-trimmed title.
// An empty key marks the record as invalid for the corpus.
func (r *NewsRecord) Key() string {
	return strings.TrimSpace(r.Title)
}

// Day returns the record's UTC calendar day, truncating sub-day
// granularity. ok is false for records with a null normalized date.
func (r *NewsRecord) Day() (time.Time, bool) {
	if r.NormalizedDate == nil {
		return time.Time{}, false
	}
	t := r.NormalizedDate.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// Tradable reports whether the record can contribute to the daily signal:
// it needs both a normalized date and at least one resolved ticker.
func (r *NewsRecord) Tradable() bool {
	_, dated := r.Day()
	return dated && len(r.Tickers) > 0
}
