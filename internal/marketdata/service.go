package marketdata

import (
	"context"
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
	"github.com/rbarbosa/sentiq/pkg/redis"
)

// Service implements contracts.MarketDataProvider with a three-layer
// lookup: Redis, then the PostgreSQL price cache, then the chart API.
// Both cache layers are optional; a nil repository or cache drops that
// layer.
type Service struct {
	client *YahooClient
	repo   *PriceRepository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService wires the provider.
func NewService(client *YahooClient, repo *PriceRepository, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{client: client, repo: repo, cache: cache, logger: log}
}

// FetchCloses collects daily closes for every ticker over [from, to].
// Failures are per ticker: a ticker that cannot be served appears in
// the error map and contributes nothing to the series, while the rest
// proceed. Identity is never inferred from response shape; each
// ticker's closes come from its own keyed lookup.
func (s *Service) FetchCloses(ctx context.Context, tickers []string, from, to time.Time) (*contracts.PriceSeries, map[string]error) {
	series := contracts.NewPriceSeries()
	failures := make(map[string]error)

	for _, ticker := range tickers {
		closes, err := s.fetchTicker(ctx, ticker, from, to)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("Ticker excluded from price series")
			failures[ticker] = err
			continue
		}
		for _, dc := range closes {
			series.Set(dc.Day, ticker, dc.Close)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"fetched":   len(tickers) - len(failures),
		"failed":    len(failures),
	}).Info("Price series assembled")

	return series, failures
}

func (s *Service) fetchTicker(ctx context.Context, ticker string, from, to time.Time) ([]DailyClose, error) {
	key := redis.PriceRangeKey(ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if s.cache != nil {
		var cached []DailyClose
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	if s.repo != nil {
		cached, err := s.repo.GetByTickerAndRange(ctx, ticker, from, to)
		if err == nil && s.covers(ctx, ticker, cached, to) {
			s.storeRedis(ctx, key, cached)
			return cached, nil
		}
		if err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache lookup failed, falling back to chart API")
		}
	}

	closes, err := s.client.FetchDailyCloses(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.SaveBatch(ctx, ticker, closes); err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to persist fetched closes")
		}
	}
	s.storeRedis(ctx, key, closes)

	return closes, nil
}

// covers reports whether the cached slice plausibly spans the request:
// non-empty and the repository's latest cached day does not trail the
// requested end by more than a settlement week.
func (s *Service) covers(ctx context.Context, ticker string, cached []DailyClose, to time.Time) bool {
	if len(cached) == 0 {
		return false
	}
	latest, ok, err := s.repo.LatestDay(ctx, ticker)
	if err != nil || !ok {
		return false
	}
	return !latest.Before(to.AddDate(0, 0, -7))
}

func (s *Service) storeRedis(ctx context.Context, key string, closes []DailyClose) {
	if s.cache == nil || len(closes) == 0 {
		return
	}
	if err := s.cache.Set(ctx, key, closes, redis.TTLDaily); err != nil {
		s.logger.WithError(err).Debug("Redis price cache write failed")
	}
}
