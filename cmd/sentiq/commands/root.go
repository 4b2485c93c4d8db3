package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sentiq",
	Short: "SentiQ - news sentiment trading pipeline",
	Long: `SentiQ Unified CLI

News sentiment to trading signal pipeline: ingest crawled articles,
resolve tickers, aggregate a daily signal, and backtest a threshold
strategy against market prices.

Usage:
  go run ./cmd/sentiq [command]

Examples:
  go run ./cmd/sentiq ingest
  go run ./cmd/sentiq backtest
  go run ./cmd/sentiq status
  go run ./cmd/sentiq api
  go run ./cmd/sentiq scheduler start`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
