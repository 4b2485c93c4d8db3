package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rbarbosa/sentiq/internal/report"
)

// statusCmd summarizes the corpus and the latest report from disk.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and latest report status",
	Long: `Reads the persisted corpus and the latest report artifact and
prints a summary without running any pipeline stage.

Example:
  go run ./cmd/sentiq status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	records, err := rt.store.Load()
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	dated, tradable := 0, 0
	byLabel := map[string]int{}
	bySource := map[string]int{}
	for _, rec := range records {
		if _, ok := rec.Day(); ok {
			dated++
		}
		if rec.Tradable() {
			tradable++
		}
		byLabel[string(rec.Sentiment)]++
		source := rec.Source
		if source == "" {
			source = "unknown"
		}
		bySource[source]++
	}

	PrintSeparator()
	fmt.Println("  Corpus")
	PrintSeparator()
	PrintKeyValue("Path", rt.cfg.CorpusPath, 14)
	PrintKeyValue("Records", fmt.Sprintf("%d", len(records)), 14)
	PrintKeyValue("With date", fmt.Sprintf("%d", dated), 14)
	PrintKeyValue("Tradable", fmt.Sprintf("%d", tradable), 14)
	for label, n := range byLabel {
		PrintKeyValue(label, fmt.Sprintf("%d", n), 14)
	}
	for source, n := range bySource {
		PrintKeyValue("src:"+source, fmt.Sprintf("%d", n), 14)
	}

	fmt.Println()
	PrintSeparator()
	fmt.Println("  Latest report")
	PrintSeparator()

	rep, err := report.Load(rt.cfg.ReportPath)
	if err != nil {
		if os.IsNotExist(err) {
			PrintInfo("No report generated yet")
			return nil
		}
		return fmt.Errorf("load report: %w", err)
	}

	PrintKeyValue("Generated", rep.GeneratedAt.Format("2006-01-02 15:04:05"), 14)
	PrintKeyValue("Period", fmt.Sprintf("%s ~ %s",
		rep.Stats.PeriodStart.Format("2006-01-02"),
		rep.Stats.PeriodEnd.Format("2006-01-02")), 14)
	PrintKeyValue("Total return", fmt.Sprintf("%.2f%%", rep.Stats.TotalReturn*100), 14)
	PrintKeyValue("Sharpe", fmt.Sprintf("%.2f", rep.Stats.SharpeRatio), 14)
	PrintKeyValue("Trades", fmt.Sprintf("%d", rep.Stats.TradeCount), 14)

	return nil
}
