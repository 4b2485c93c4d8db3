package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rbarbosa/sentiq/internal/resolve"
)

// tickersCmd manages the organization -> ticker mapping table.
var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Manage the organization-to-ticker table",
	Long: `Inspects or rebuilds the name-to-ticker mapping the resolver uses.

Example:
  go run ./cmd/sentiq tickers show
  go run ./cmd/sentiq tickers import listing.html`,
}

var tickersShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the loaded ticker table size",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.Close()

		table, err := resolve.LoadTickerTable(rt.cfg.TickerMapPath)
		if err != nil {
			return fmt.Errorf("load ticker table: %w", err)
		}
		PrintKeyValue("Path", rt.cfg.TickerMapPath, 10)
		PrintKeyValue("Entries", fmt.Sprintf("%d", table.Len()), 10)
		return nil
	},
}

var tickersImportCmd = &cobra.Command{
	Use:   "import [html-file]",
	Short: "Build the ticker table from an exported listing page",
	Long: `Parses an HTML table of company names and tickers (first column
name, second column ticker) and writes the mapping JSON the resolver
reads. Rows with an empty or dash ticker become explicit null entries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open listing page: %w", err)
		}
		defer f.Close()

		entries, err := resolve.ImportTableHTML(f)
		if err != nil {
			return fmt.Errorf("parse listing page: %w", err)
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(rt.cfg.TickerMapPath, data, 0o644); err != nil {
			return fmt.Errorf("write ticker table: %w", err)
		}

		PrintSuccess(fmt.Sprintf("Imported %d entries to %s", len(entries), rt.cfg.TickerMapPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tickersCmd)
	tickersCmd.AddCommand(tickersShowCmd)
	tickersCmd.AddCommand(tickersImportCmd)
}
