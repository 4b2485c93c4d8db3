package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ingestCmd merges the crawler output into the corpus.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Merge crawled articles into the corpus",
	Long: `Parses the raw crawler output, normalizes dates, labels sentiment
and merges new records into the persisted corpus. Duplicate titles
against the corpus are skipped; the raw file is cleared only after the
merged corpus is durably written.

Example:
  go run ./cmd/sentiq ingest
  go run ./cmd/sentiq ingest --offline`,
	RunE: runIngest,
}

var ingestOffline bool

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestOffline, "offline", false, "use the keyword classifier instead of the inference service")
}

func runIngest(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(ingestOffline)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.orchestrator.Ingest(context.Background())
	if err != nil {
		PrintError(fmt.Sprintf("Ingestion failed: %v", err))
		return err
	}

	PrintSuccess(fmt.Sprintf("Ingestion finished: %d read, %d accepted, %d duplicates, %d excluded",
		result.Read, result.Accepted, result.Duplicates, result.Excluded))
	return nil
}
