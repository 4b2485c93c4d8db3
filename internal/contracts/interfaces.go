package contracts

import (
	"context"
	"time"
)

// SentimentClassifier is the pretrained text classifier collaborator.
// It is a pure function of the text; unknown or unclassifiable input
// yields SentimentUnknown, never an error at the record level.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// OrganizationExtractor is the named-entity collaborator: free text in,
// set of organization display names out.
type OrganizationExtractor interface {
	Organizations(ctx context.Context, text string) ([]string, error)
}

// MarketDataProvider supplies closing prices for a ticker list over a
// date range. Failed tickers are reported per ticker in the second
// return value rather than failing the whole request; the returned
// series covers the successful subset only.
type MarketDataProvider interface {
	FetchCloses(ctx context.Context, tickers []string, from, to time.Time) (*PriceSeries, map[string]error)
}
