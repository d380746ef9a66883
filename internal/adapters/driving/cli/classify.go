package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

var (
	classifyThreshold float64
	classifyJSON      bool
	runsLimit         int
	runsJSON          bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Derive stance labels for every record",
	Long: `Adds the label columns if needed, then sets exactly one of pro_russia,
pro_ukraine and unsure on every record.

A record is pro_russia when "in favour of Russia" or "against Ukraine" is
entailed at or above the threshold and neither "in favour of Ukraine" nor
"against Russia" is; pro_ukraine is the mirror image; anything else is unsure.

Without --threshold the configured classifier.threshold is used (default 0.9).`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

var classifyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent classifier runs",
	Args:  cobra.NoArgs,
	RunE:  runClassifyRuns,
}

func init() {
	classifyCmd.Flags().Float64VarP(&classifyThreshold, "threshold", "t", domain.DefaultThreshold,
		"entailment confidence in [0, 1]")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output the run as JSON")
	classifyRunsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs (0 for all)")
	classifyRunsCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")
	classifyCmd.AddCommand(classifyRunsCmd)
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if classifierService == nil {
		return errors.New("classifier service not configured")
	}

	threshold, err := resolveThreshold(cmd)
	if err != nil {
		return err
	}

	run, err := classifierService.ClassifyWithThreshold(context.Background(), threshold)
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}

	if classifyJSON {
		return writeJSON(cmd, run)
	}

	cmd.Printf("Classified %d records at threshold %g\n", run.Summary.Records, run.Threshold)
	printTable(cmd, []string{"LABEL", "RECORDS"}, [][]string{
		{"pro_russia", strconv.Itoa(run.Summary.ProRussia)},
		{"pro_ukraine", strconv.Itoa(run.Summary.ProUkraine)},
		{"unsure", strconv.Itoa(run.Summary.Unsure)},
	})
	return nil
}

// resolveThreshold prefers --threshold, then the configured default.
func resolveThreshold(cmd *cobra.Command) (float64, error) {
	if cmd.Flags().Changed("threshold") || settingsService == nil {
		return classifyThreshold, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return 0, fmt.Errorf("configuration error: %w", err)
	}
	return settings.Classifier.Threshold, nil
}

func runClassifyRuns(cmd *cobra.Command, _ []string) error {
	if classifierService == nil {
		return errors.New("classifier service not configured")
	}

	runs, err := classifierService.Runs(context.Background(), runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs failed: %w", err)
	}

	if runsJSON {
		return writeJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No classifier runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for i := range runs {
		r := &runs[i]
		status := "ok"
		if !r.Success {
			status = "failed: " + r.Error
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			strconv.FormatFloat(r.Threshold, 'g', -1, 64),
			strconv.Itoa(r.Summary.Records),
			strconv.Itoa(r.Summary.ProRussia),
			strconv.Itoa(r.Summary.ProUkraine),
			strconv.Itoa(r.Summary.Unsure),
			r.Duration().Round(time.Millisecond).String(),
			status,
		})
	}
	printTable(cmd, []string{
		"ID", "STARTED", "THRESHOLD", "RECORDS", "PRO_RUSSIA", "PRO_UKRAINE", "UNSURE", "DURATION", "STATUS",
	}, rows)
	return nil
}
