package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/sentiq/internal/align"
	"github.com/rbarbosa/sentiq/internal/backtest"
	"github.com/rbarbosa/sentiq/internal/classify"
	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/internal/ingest"
	"github.com/rbarbosa/sentiq/internal/report"
	"github.com/rbarbosa/sentiq/internal/resolve"
	"github.com/rbarbosa/sentiq/internal/signal"
	"github.com/rbarbosa/sentiq/internal/strategy"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// stubProvider serves a fixed price table and records what was asked.
type stubProvider struct {
	series   *contracts.PriceSeries
	failures map[string]error
	asked    []string
}

func (p *stubProvider) FetchCloses(_ context.Context, tickers []string, _, _ time.Time) (*contracts.PriceSeries, map[string]error) {
	p.asked = tickers
	if p.failures == nil {
		p.failures = map[string]error{}
	}
	return p.series, p.failures
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestOrchestrator(t *testing.T, rawNews string, provider *stubProvider) (*Orchestrator, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		RawNewsPath:  filepath.Join(dir, "raw.json"),
		CorpusPath:   filepath.Join(dir, "corpus.json"),
		ReportPath:   filepath.Join(dir, "report.json"),
		IngestLocale: "pt",
		Strategy: config.StrategyConfig{
			BuyThreshold:       1,
			SellThreshold:      -1,
			InitialCash:        100000,
			FeeRate:            0.001,
			SlippageRate:       0.001,
			AllocationFraction: 0.25,
			Annualization:      252,
		},
	}
	writeFile(t, cfg.RawNewsPath, rawNews)

	log := logger.NewNop()
	classifier := classify.NewStaticClassifier(
		[]string{"lucro", "recorde", "alta"},
		[]string{"queda", "prejuízo"},
	)

	petr := "PETR4.SA"
	table := resolve.NewTickerTable(map[string]*string{"Petrobras": &petr})

	store := ingest.NewCorpusStore(cfg.CorpusPath)
	ingestor := ingest.NewIngestor(store, ingest.NewNormalizer(cfg.IngestLocale), classifier, log)
	resolver := resolve.NewResolver(table, resolve.NewTableExtractor(table), log)

	engine, err := strategy.NewEngine(cfg.Strategy, log)
	require.NoError(t, err)

	orch := NewOrchestrator(
		cfg,
		store,
		ingestor,
		resolver,
		signal.NewAggregator(log),
		align.NewAligner(log),
		engine,
		backtest.NewSimulator(cfg.Strategy, log),
		provider,
		report.NewBuilder(log),
		log,
	)
	return orch, cfg
}

func pricesFor(ticker string, start time.Time, closes ...float64) *contracts.PriceSeries {
	series := contracts.NewPriceSeries()
	for i, c := range closes {
		series.Set(start.AddDate(0, 0, i), ticker, c)
	}
	return series
}

func TestRunBacktestEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full pipeline run in short mode")
	}
	// Two positive Petrobras articles on day one push the lagged signal
	// past the buy threshold on day two.
	raw := `[
		{"title": "Petrobras anuncia lucro recorde", "content": "A Petrobras registrou lucro recorde", "date": "1762128000"},
		{"title": "Alta da Petrobras surpreende", "content": "Mais um dia de alta para a Petrobras", "date": "1762130000"},
		{"title": "Petrobras divulga calendario de resultados", "content": "A Petrobras publicou o calendario", "date": "1762214400"}
	]`

	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{series: pricesFor("PETR4.SA", start, 30, 31, 32, 33)}

	orch, cfg := newTestOrchestrator(t, raw, provider)

	summary, err := orch.RunBacktest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"PETR4.SA"}, provider.asked)
	require.NotNil(t, summary.Report)
	assert.Positive(t, summary.Report.Stats.TradeCount)
	assert.NotEmpty(t, summary.Rendered)

	// The artifact landed on disk.
	loaded, err := report.Load(cfg.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, summary.Report.Stats.TradeCount, loaded.Stats.TradeCount)

	// All seven stages reported.
	stages := make([]contracts.Stage, 0, len(summary.StageResults))
	for _, sr := range summary.StageResults {
		stages = append(stages, sr.Stage)
	}
	assert.Equal(t, contracts.AllStages(), stages)
}

func TestRunBacktestPersistsEnrichment(t *testing.T) {
	raw := `[{"title": "Petrobras anuncia lucro recorde", "content": "Lucro recorde da Petrobras", "date": "1762128000"},
		{"title": "Petrobras divulga calendario", "content": "A Petrobras publicou o calendario", "date": "1762214400"}]`

	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{series: pricesFor("PETR4.SA", start, 30, 31)}
	orch, cfg := newTestOrchestrator(t, raw, provider)

	_, err := orch.RunBacktest(context.Background())
	require.NoError(t, err)

	// The corpus on disk carries what the resolver and the price fetch
	// attached, not just what ingestion wrote.
	records, err := ingest.NewCorpusStore(cfg.CorpusPath).Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.Equal(t, []string{"Petrobras"}, rec.Organizations)
		assert.Equal(t, []string{"PETR4.SA"}, rec.Tickers)
	}

	require.Contains(t, records[0].PriceOnDay, "PETR4.SA")
	require.NotNil(t, records[0].PriceOnDay["PETR4.SA"])
	assert.Equal(t, 30.0, *records[0].PriceOnDay["PETR4.SA"])
	require.NotNil(t, records[1].PriceOnDay["PETR4.SA"])
	assert.Equal(t, 31.0, *records[1].PriceOnDay["PETR4.SA"])
}

func TestRunBacktestEmptyInputIsCleanFailure(t *testing.T) {
	provider := &stubProvider{series: contracts.NewPriceSeries()}
	orch, _ := newTestOrchestrator(t, "[]", provider)

	_, err := orch.RunBacktest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus is empty")
}

func TestRunBacktestNoResolvableTicker(t *testing.T) {
	raw := `[{"title": "Mercado em alta", "content": "Dia de alta generalizada", "date": "1762128000"}]`
	provider := &stubProvider{series: contracts.NewPriceSeries()}
	orch, _ := newTestOrchestrator(t, raw, provider)

	_, err := orch.RunBacktest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tradable ticker")
}

func TestRunBacktestAllTickersFail(t *testing.T) {
	raw := `[{"title": "Petrobras anuncia lucro recorde", "content": "Lucro recorde da Petrobras", "date": "1762128000"}]`
	provider := &stubProvider{
		series:   contracts.NewPriceSeries(),
		failures: map[string]error{"PETR4.SA": context.DeadlineExceeded},
	}
	orch, _ := newTestOrchestrator(t, raw, provider)

	_, err := orch.RunBacktest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price data")
}

func TestIngestMissingFileIsNoOp(t *testing.T) {
	provider := &stubProvider{series: contracts.NewPriceSeries()}
	orch, cfg := newTestOrchestrator(t, "[]", provider)
	require.NoError(t, os.Remove(cfg.RawNewsPath))

	result, err := orch.Ingest(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Accepted)
}
