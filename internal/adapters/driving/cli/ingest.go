package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.jsonl>...",
	Short: "Load line-delimited JSON posts",
	Long: `Loads every line of each file into the records table, one transaction per file.

Malformed lines are skipped and reported with their line number on stderr.
Re-ingesting a file stores its records again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	results := make([]*domain.IngestResult, 0, len(args))
	total := domain.IngestResult{Source: "total"}
	var errs []error

	for _, path := range args {
		result, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
		total.Merge(*result)
	}

	if ingestJSON {
		if err := writeJSON(cmd, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			cmd.Printf("%s: %d loaded, %d skipped, %d failed (%d lines)\n",
				r.Source, r.Loaded, r.Skipped, r.Failed, r.Lines)
		}
		if len(results) > 1 {
			cmd.Printf("Total: %d loaded, %d skipped, %d failed (%d lines)\n",
				total.Loaded, total.Skipped, total.Failed, total.Lines)
		}
		if len(results) > 0 {
			cmd.Printf("Records in store: %d\n", total.Stored)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("ingest failed: %w", errors.Join(errs...))
	}
	return nil
}
