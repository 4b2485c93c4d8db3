package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// backtestCmd runs the full pipeline and prints the performance report.
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the full pipeline and backtest",
	Long: `Runs all stages: ingest pending articles, resolve tickers, build
the daily sentiment signal, fetch prices, and replay the threshold
strategy. Writes the report artifact and prints a summary.

Example:
  go run ./cmd/sentiq backtest
  go run ./cmd/sentiq backtest --offline`,
	RunE: runBacktest,
}

var backtestOffline bool

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().BoolVar(&backtestOffline, "offline", false, "use the keyword classifier instead of the inference service")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(backtestOffline)
	if err != nil {
		return err
	}
	defer rt.Close()

	summary, err := rt.orchestrator.RunBacktest(context.Background())
	if err != nil {
		PrintError(fmt.Sprintf("Backtest failed: %v", err))
		for _, sr := range summary.StageResults {
			status := "ok"
			if !sr.Success {
				status = "failed"
			}
			fmt.Printf("  %-12s %-6s read=%d accepted=%d excluded=%d\n",
				sr.Stage, status, sr.Read, sr.Accepted, sr.Excluded)
		}
		return err
	}

	fmt.Println()
	fmt.Print(summary.Rendered)
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Report written to %s", rt.cfg.ReportPath))
	return nil
}
