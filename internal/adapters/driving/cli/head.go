package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	headLimit int
	headJSON  bool
)

var headCmd = &cobra.Command{
	Use:   "head",
	Short: "Show the first stored records",
	Args:  cobra.NoArgs,
	RunE:  runHead,
}

func init() {
	headCmd.Flags().IntVarP(&headLimit, "limit", "n", 10, "number of records to show")
	headCmd.Flags().BoolVar(&headJSON, "json", false, "output full records as JSON")
	rootCmd.AddCommand(headCmd)
}

func runHead(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	records, err := reportService.Head(context.Background(), headLimit)
	if err != nil {
		return fmt.Errorf("head failed: %w", err)
	}

	if headJSON {
		return writeJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No records stored.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		label := "-"
		if r.Labels != nil {
			label = r.Labels.String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.TweetID,
			r.Channel,
			r.Country,
			strconv.Itoa(len(r.Stance)),
			label,
			truncate(r.EnText, 60),
		})
	}
	printTable(cmd, []string{"ID", "TWEET_ID", "CHANNEL", "COUNTRY", "SCORES", "LABEL", "TEXT"}, rows)
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
