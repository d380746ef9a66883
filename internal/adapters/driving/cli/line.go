package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

var lineCmd = &cobra.Command{
	Use:   "line <file.jsonl> <n>",
	Short: "Decode one line of a JSONL file",
	Long: `Decodes the n-th line (counting from 1) of a JSONL file and prints it as
a record, without storing it. Useful for inspecting lines that failed to load.

--scores prints the entailment score of each hypothesis and the label the
record gets at the default threshold instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runLine,
}

var lineScores bool

func init() {
	lineCmd.Flags().BoolVar(&lineScores, "scores", false, "print per-hypothesis entailment scores")
	rootCmd.AddCommand(lineCmd)
}

func runLine(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("%w: line number must be a positive integer, got %q", domain.ErrInvalidInput, args[1])
	}

	rec, err := ingestService.ReadLine(context.Background(), args[0], n)
	if err != nil {
		return fmt.Errorf("read line failed: %w", err)
	}
	if lineScores {
		printScores(cmd, rec.Stance)
		return nil
	}
	return writeJSON(cmd, rec)
}

// printScores lists the first entailment score recorded for each hypothesis.
func printScores(cmd *cobra.Command, seq domain.StanceSequence) {
	hyps := domain.AllHypotheses()
	rows := make([][]string, 0, len(hyps))
	for _, h := range hyps {
		score := "-"
		if p, ok := seq.Entailment(h); ok && p.Valid {
			score = formatScore(p.Value)
		}
		rows = append(rows, []string{h.Key(), score})
	}
	printTable(cmd, []string{"HYPOTHESIS", "ENTAIL_PROB"}, rows)
	cmd.Printf("Label at threshold %g: %s\n", domain.DefaultThreshold, domain.Classify(seq, domain.DefaultThreshold))
}
