package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Report is the final pipeline artifact: performance statistics, the
// trade log, and the per-ticker failures that were excluded from the
// simulation.
type Report struct {
	GeneratedAt     time.Time                  `json:"generated_at"`
	Stats           contracts.PerformanceStats `json:"stats"`
	Trades          []contracts.Trade          `json:"trades"`
	ExcludedTickers map[string]string          `json:"excluded_tickers,omitempty"`
	StageResults    []contracts.StageResult    `json:"stage_results"`
}

// Builder assembles and writes reports.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a report builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// Build assembles the report from the simulation output. Excluded
// tickers keep their failure reason so a run is diagnosable from the
// artifact alone.
func (b *Builder) Build(stats contracts.PerformanceStats, trades []contracts.Trade, failures map[string]error, stageResults []contracts.StageResult) *Report {
	excluded := make(map[string]string, len(failures))
	for ticker, err := range failures {
		excluded[ticker] = err.Error()
	}

	return &Report{
		GeneratedAt:     time.Now().UTC(),
		Stats:           stats,
		Trades:          trades,
		ExcludedTickers: excluded,
		StageResults:    stageResults,
	}
}

// WriteJSON persists the report atomically: full write to a temp file
// in the target directory, then rename.
func (b *Builder) WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	b.logger.WithField("path", path).Info("Report written")
	return nil
}

// Render formats the report for the console.
func (b *Builder) Render(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Backtest %s to %s\n",
		r.Stats.PeriodStart.Format("2006-01-02"), r.Stats.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(&sb, "  Initial cash:   %14.2f\n", r.Stats.InitialCash)
	fmt.Fprintf(&sb, "  Final equity:   %14.2f\n", r.Stats.FinalEquity)
	fmt.Fprintf(&sb, "  Total return:   %13.2f%%\n", r.Stats.TotalReturn*100)
	fmt.Fprintf(&sb, "  Max drawdown:   %13.2f%%\n", r.Stats.MaxDrawdown*100)
	fmt.Fprintf(&sb, "  Sharpe ratio:   %14.2f\n", r.Stats.SharpeRatio)
	fmt.Fprintf(&sb, "  Win rate:       %13.2f%%\n", r.Stats.WinRate*100)
	fmt.Fprintf(&sb, "  Trades:         %14d\n", r.Stats.TradeCount)
	fmt.Fprintf(&sb, "  Round trips:    %14d\n", r.Stats.RoundTrips)

	if len(r.ExcludedTickers) > 0 {
		sb.WriteString("\nExcluded tickers:\n")
		tickers := make([]string, 0, len(r.ExcludedTickers))
		for t := range r.ExcludedTickers {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, t := range tickers {
			fmt.Fprintf(&sb, "  %-12s %s\n", t, r.ExcludedTickers[t])
		}
	}

	return sb.String()
}

// Load reads a previously written report artifact.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &r, nil
}
