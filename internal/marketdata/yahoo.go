package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/httputil"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// YahooClient fetches daily closing prices from the Yahoo Finance
// chart API, one symbol per request. A local token bucket keeps the
// request rate under the configured budget.
type YahooClient struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
}

// NewYahooClient creates a chart API client.
func NewYahooClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *YahooClient {
	return &YahooClient{
		httpClient: httpClient.WithRetry(cfg.MaxRetries, 500*time.Millisecond),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
		logger:     log,
		baseURL:    cfg.BaseURL,
	}
}

// DailyClose is one trading day's close for a symbol.
type DailyClose struct {
	Day   time.Time
	Close float64
}

// chartResponse mirrors the chart API envelope, closes only.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses returns the symbol's daily closes over [from, to],
// ascending. Null closes (halted sessions) are skipped.
func (c *YahooClient) FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]DailyClose, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.baseURL, symbol, from.Unix(), to.AddDate(0, 0, 1).Unix())

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s: unexpected status code %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}

	return parseChartResponse(symbol, body)
}

// parseChartResponse extracts (day, close) pairs from a chart API
// payload. Timestamps are truncated to UTC calendar days.
func parseChartResponse(symbol string, body []byte) ([]DailyClose, error) {
	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s (%s)",
			symbol, payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart result for %s carries no quote block", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	out := make([]DailyClose, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		out = append(out, DailyClose{Day: day, Close: *closes[i]})
	}
	return out, nil
}
