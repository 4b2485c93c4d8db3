package signal

import (
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Aggregator sums per-record sentiment scores into the daily
// per-instrument signal. A record citing N tickers contributes its
// full score to each of the N, unreduced (the exploded join).
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log}
}

// Aggregate buckets contributions by UTC calendar day and ticker and
// sums them. Records with a null day or an empty ticker set contribute
// nothing and are silently excluded.
func (a *Aggregator) Aggregate(records []*contracts.NewsRecord) (*contracts.DailySignal, contracts.StageResult) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageAggregate, Read: len(records)}

	daily := contracts.NewDailySignal()

	for _, rec := range records {
		day, ok := rec.Day()
		if !ok || len(rec.Tickers) == 0 {
			result.Excluded++
			continue
		}

		score := rec.Sentiment.Score()
		for _, ticker := range rec.Tickers {
			daily.Add(day, ticker, score)
		}
		result.Accepted++
	}

	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	a.logger.WithFields(map[string]interface{}{
		"records":  result.Read,
		"used":     result.Accepted,
		"excluded": result.Excluded,
		"days":     len(daily.Scores),
		"tickers":  len(daily.Tickers()),
	}).Info("Daily signal aggregated")

	return daily, result
}
