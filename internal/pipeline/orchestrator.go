package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbarbosa/sentiq/internal/align"
	"github.com/rbarbosa/sentiq/internal/backtest"
	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/internal/ingest"
	"github.com/rbarbosa/sentiq/internal/report"
	"github.com/rbarbosa/sentiq/internal/resolve"
	"github.com/rbarbosa/sentiq/internal/signal"
	"github.com/rbarbosa/sentiq/internal/strategy"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Orchestrator runs the pipeline stage by stage. Each stage is a pure
// function of its inputs plus the persisted corpus; the orchestrator
// owns the decision to halt or continue, no stage terminates the
// process on its own.
type Orchestrator struct {
	cfg        *config.Config
	store      *ingest.CorpusStore
	ingestor   *ingest.Ingestor
	resolver   *resolve.Resolver
	aggregator *signal.Aggregator
	aligner    *align.Aligner
	engine     *strategy.Engine
	simulator  *backtest.Simulator
	provider   contracts.MarketDataProvider
	reporter   *report.Builder
	logger     *logger.Logger
}

// RunSummary is the outcome of one full pipeline run.
type RunSummary struct {
	StageResults []contracts.StageResult
	Report       *report.Report
	Rendered     string
}

// NewOrchestrator wires the stages.
func NewOrchestrator(
	cfg *config.Config,
	store *ingest.CorpusStore,
	ingestor *ingest.Ingestor,
	resolver *resolve.Resolver,
	aggregator *signal.Aggregator,
	aligner *align.Aligner,
	engine *strategy.Engine,
	simulator *backtest.Simulator,
	provider contracts.MarketDataProvider,
	reporter *report.Builder,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		ingestor:   ingestor,
		resolver:   resolver,
		aggregator: aggregator,
		aligner:    aligner,
		engine:     engine,
		simulator:  simulator,
		provider:   provider,
		reporter:   reporter,
		logger:     log,
	}
}

// Ingest runs S0 alone: merge the raw crawl into the corpus. An empty
// or missing input is a successful no-op.
func (o *Orchestrator) Ingest(ctx context.Context) (contracts.StageResult, error) {
	result, err := o.ingestor.Run(ctx, o.cfg.RawNewsPath)
	if errors.Is(err, ingest.ErrNothingToProcess) {
		o.logger.Info("No new records to ingest")
		return result, nil
	}
	return result, err
}

// RunBacktest executes S0 through S6 over the persisted corpus and
// writes the report artifact.
func (o *Orchestrator) RunBacktest(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{}

	ingestResult, err := o.Ingest(ctx)
	summary.StageResults = append(summary.StageResults, ingestResult)
	if err != nil {
		return summary, fmt.Errorf("ingestion failed: %w", err)
	}

	corpus, err := o.store.Load()
	if err != nil {
		return summary, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return summary, errors.New("corpus is empty, nothing to backtest")
	}

	enriched, tradable, resolveResult, err := o.resolver.Resolve(ctx, corpus)
	summary.StageResults = append(summary.StageResults, resolveResult)
	if err != nil {
		return summary, fmt.Errorf("ticker resolution failed: %w", err)
	}
	if err := o.store.Persist(enriched); err != nil {
		return summary, fmt.Errorf("failed to persist enriched corpus: %w", err)
	}
	if len(tradable) == 0 {
		return summary, errors.New("no record resolved to a tradable ticker")
	}

	daily, aggResult := o.aggregator.Aggregate(tradable)
	summary.StageResults = append(summary.StageResults, aggResult)
	if daily.IsEmpty() {
		return summary, errors.New("daily signal is empty")
	}

	from, to := signalRange(daily)
	prices, failures := o.provider.FetchCloses(ctx, daily.Tickers(), from, to)
	if prices.IsEmpty() {
		return summary, fmt.Errorf("no price data for any of %d tickers", len(daily.Tickers()))
	}

	annotateCloses(enriched, prices)
	if err := o.store.Persist(enriched); err != nil {
		o.logger.WithError(err).Warn("Failed to persist price annotations")
	}

	aligned, alignResult := o.aligner.Align(daily, prices)
	summary.StageResults = append(summary.StageResults, alignResult)
	if aligned.Len() == 0 {
		return summary, errors.New("signal and price calendars do not overlap")
	}

	entries, exits, decideResult := o.engine.Decide(aligned)
	summary.StageResults = append(summary.StageResults, decideResult)

	simResult, simStage := o.simulator.Run(entries, exits, prices)
	summary.StageResults = append(summary.StageResults, simStage)

	reportStart := time.Now()
	rep := o.reporter.Build(simResult.Stats, simResult.Trades, failures, summary.StageResults)
	reportResult := contracts.StageResult{Stage: contracts.StageReport, Success: true}
	if o.cfg.ReportPath != "" {
		if err := o.reporter.WriteJSON(rep, o.cfg.ReportPath); err != nil {
			reportResult.Success = false
			reportResult.Error = err.Error()
			o.logger.WithError(err).Error("Failed to write report artifact")
		}
	}
	reportResult.DurationMS = time.Since(reportStart).Milliseconds()
	summary.StageResults = append(summary.StageResults, reportResult)

	summary.Report = rep
	summary.Rendered = o.reporter.Render(rep)
	return summary, nil
}

// annotateCloses stamps each dated, ticker-bearing record with its
// tickers' same-day closes, keeping the market context a run saw on the
// record itself. A ticker with no quote that day keeps a null entry.
func annotateCloses(records []*contracts.NewsRecord, prices *contracts.PriceSeries) {
	for _, rec := range records {
		day, ok := rec.Day()
		if !ok || len(rec.Tickers) == 0 {
			continue
		}
		onDay := make(map[string]*float64, len(rec.Tickers))
		for _, ticker := range rec.Tickers {
			if close, ok := prices.Get(day, ticker); ok {
				c := close
				onDay[ticker] = &c
			} else {
				onDay[ticker] = nil
			}
		}
		rec.PriceOnDay = onDay
	}
}

// signalRange returns the corpus signal's date span, padded a few days
// on each side so the price axis can cover the lag and weekend rolls.
func signalRange(daily *contracts.DailySignal) (time.Time, time.Time) {
	days := daily.Days()
	return days[0].AddDate(0, 0, -7), days[len(days)-1].AddDate(0, 0, 7)
}
