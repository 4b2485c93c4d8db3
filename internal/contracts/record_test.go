package contracts

import (
	"testing"
	"time"
)

func TestSentiment_Score(t *testing.T) {
	tests := []struct {
		sentiment Sentiment
		want      int
	}{
		{SentimentPositive, 1},
		{SentimentNegative, -1},
		{SentimentNeutral, 0},
		{SentimentUnknown, 0},
	}

	for _, tt := range tests {
		if got := tt.sentiment.Score(); got != tt.want {
			t.Errorf("%s.Score() = %d, want %d", tt.sentiment, got, tt.want)
		}
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		raw  string
		want Sentiment
	}{
		{"POSITIVE", SentimentPositive},
		{"positive", SentimentPositive},
		{" Negative ", SentimentNegative},
		{"NEUTRAL", SentimentNeutral},
		{"TEXTO_INVALIDO", SentimentUnknown},
		{"", SentimentUnknown},
	}

	for _, tt := range tests {
		if got := ParseSentiment(tt.raw); got != tt.want {
			t.Errorf("ParseSentiment(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNewsRecord_Day(t *testing.T) {
	ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	rec := &NewsRecord{Title: "X", NormalizedDate: &ts}

	day, ok := rec.Day()
	if !ok {
		t.Fatal("expected a day for a dated record")
	}
	want := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("Day() = %v, want %v", day, want)
	}

	undated := &NewsRecord{Title: "Y"}
	if _, ok := undated.Day(); ok {
		t.Error("expected no day for a record with null normalized date")
	}
}

func TestNewsRecord_Tradable(t *testing.T) {
	ts := time.Date(2023, 11, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  *NewsRecord
		want bool
	}{
		{"dated with tickers", &NewsRecord{NormalizedDate: &ts, Tickers: []string{"PETR4.SA"}}, true},
		{"dated without tickers", &NewsRecord{NormalizedDate: &ts}, false},
		{"undated with tickers", &NewsRecord{Tickers: []string{"PETR4.SA"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Tradable(); got != tt.want {
				t.Errorf("Tradable() = %v, want %v", got, tt.want)
			}
		})
	}
}
