package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/sentiq/internal/api/handlers"
	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/internal/ingest"
	"github.com/rbarbosa/sentiq/internal/report"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		CorpusPath: filepath.Join(dir, "corpus.json"),
		ReportPath: filepath.Join(dir, "report.json"),
		APIPort:    "0",
	}

	corpus := `[
		{"title": "Petrobras anuncia lucro", "content": "x", "normalized_date": "2025-11-03T10:00:00Z", "sentiment": "POSITIVE", "tickers": ["PETR4.SA"]},
		{"title": "Nota sem data", "content": "y", "sentiment": "NEUTRAL"}
	]`
	require.NoError(t, os.WriteFile(cfg.CorpusPath, []byte(corpus), 0o644))

	log := logger.NewNop()
	h := handlers.NewPipelineHandler(ingest.NewCorpusStore(cfg.CorpusPath), nil, cfg, log)
	return NewRouter(h, log), cfg
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCorpusStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/corpus/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats handlers.CorpusStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Dated)
	assert.Equal(t, 1, stats.Tradable)
	assert.Equal(t, 1, stats.Days)
	assert.Equal(t, 1, stats.Sentiment["POSITIVE"])
	assert.Equal(t, 1, stats.Sentiment["NEUTRAL"])
}

func TestLatestReportEndpoint(t *testing.T) {
	router, cfg := newTestRouter(t)

	// 404 before any run.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/report/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	b := report.NewBuilder(logger.NewNop())
	r := b.Build(contracts.PerformanceStats{InitialCash: 100000, FinalEquity: 101000}, nil, nil, nil)
	require.NoError(t, b.WriteJSON(r, cfg.ReportPath))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/report/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.InDelta(t, 101000.0, loaded.Stats.FinalEquity, 1e-9)
}

func TestJobStatsWithoutScheduler(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/jobs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
