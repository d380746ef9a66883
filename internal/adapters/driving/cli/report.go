package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

var (
	reportJSON      bool
	reportGroupBy   string
	reportEurope    bool
	reportCountries []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate reports over stored records",
	Long: `Read-only reports over the records table.

Records without a country (or channel) are left out of every report except
stance, which lists them under an empty group.`,
}

var reportCountriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Count distinct countries",
	Args:  cobra.NoArgs,
	RunE:  runReportCountries,
}

var reportByCountryCmd = &cobra.Command{
	Use:   "by-country",
	Short: "Count records per country",
	Args:  cobra.NoArgs,
	RunE:  runReportByCountry,
}

var reportEntailmentCmd = &cobra.Command{
	Use:   "entailment <hypothesis>",
	Short: "Average one hypothesis' entailment per country",
	Long: `Averages the entailment score of one hypothesis per country, highest first.

The hypothesis is a short key or the full statement:
  favor_russia, against_russia, favor_ukraine, against_ukraine,
  favor_war, against_war, favor_military_conflict, against_military_conflict`,
	Args: cobra.ExactArgs(1),
	RunE: runReportEntailment,
}

var reportOutletsCmd = &cobra.Command{
	Use:   "outlets",
	Short: "Average every hypothesis per outlet",
	Args:  cobra.NoArgs,
	RunE:  runReportOutlets,
}

var reportStanceCmd = &cobra.Command{
	Use:   "stance",
	Short: "Sum derived labels per country or channel",
	Long: `Sums pro_russia, pro_ukraine and unsure per group. Run classify first;
before the label columns exist every sum is zero.

--europe restricts the report to the configured report.countries list.`,
	Args: cobra.NoArgs,
	RunE: runReportStance,
}

func init() {
	reportCmd.PersistentFlags().BoolVar(&reportJSON, "json", false, "output results as JSON")
	reportStanceCmd.Flags().StringVar(&reportGroupBy, "by", string(domain.GroupByCountry), "group by country or channel")
	reportStanceCmd.Flags().BoolVar(&reportEurope, "europe", false, "only include the configured European countries")
	reportStanceCmd.Flags().StringSliceVar(&reportCountries, "country", nil, "only include these countries (repeatable)")

	reportCmd.AddCommand(reportCountriesCmd)
	reportCmd.AddCommand(reportByCountryCmd)
	reportCmd.AddCommand(reportEntailmentCmd)
	reportCmd.AddCommand(reportOutletsCmd)
	reportCmd.AddCommand(reportStanceCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportCountries(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	n, err := reportService.DistinctCountries(context.Background())
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd, map[string]int{"countries": n})
	}
	cmd.Printf("Distinct countries: %d\n", n)
	return nil
}

func runReportByCountry(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	counts, err := reportService.CountByCountry(context.Background())
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd, counts)
	}
	if len(counts) == 0 {
		cmd.Println("No records with a country.")
		return nil
	}

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Group, strconv.Itoa(c.Count)})
	}
	printTable(cmd, []string{"COUNTRY", "RECORDS"}, rows)
	return nil
}

func runReportEntailment(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	avgs, err := reportService.AverageEntailment(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd, avgs)
	}
	if len(avgs) == 0 {
		cmd.Println("No scores for that hypothesis.")
		return nil
	}

	rows := make([][]string, 0, len(avgs))
	for _, a := range avgs {
		rows = append(rows, []string{a.Group, formatScore(a.Average), strconv.Itoa(a.Samples)})
	}
	printTable(cmd, []string{"COUNTRY", "AVG_ENTAIL_PROB", "SAMPLES"}, rows)
	return nil
}

func runReportOutlets(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	profiles, err := reportService.OutletProfiles(context.Background())
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd, profiles)
	}
	if len(profiles) == 0 {
		cmd.Println("No outlets with stance scores.")
		return nil
	}

	hyps := domain.AllHypotheses()
	headers := []string{"CHANNEL", "COUNTRY", "RECORDS"}
	for _, h := range hyps {
		headers = append(headers, h.Key())
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		row := []string{p.Channel, p.Country, strconv.Itoa(p.Records)}
		for _, h := range hyps {
			if v, ok := p.Averages[h.Key()]; ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	printTable(cmd, headers, rows)
	return nil
}

func runReportStance(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	grouping, err := domain.ParseGrouping(reportGroupBy)
	if err != nil {
		return err
	}

	q := domain.StanceQuery{GroupBy: grouping, Countries: reportCountries}
	if reportEurope && len(q.Countries) == 0 {
		q.Countries = domain.EuropeanCountries()
		if settingsService != nil {
			settings, err := settingsService.Get()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			q.Countries = settings.Report.Countries
		}
	}

	dist, err := reportService.StanceDistribution(context.Background(), q)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportJSON {
		return writeJSON(cmd, dist)
	}
	if len(dist) == 0 {
		cmd.Println("No matching records.")
		return nil
	}

	rows := make([][]string, 0, len(dist))
	for _, d := range dist {
		group := d.Group
		if group == "" {
			group = "(none)"
		}
		rows = append(rows, []string{
			group,
			strconv.Itoa(d.Records),
			strconv.Itoa(d.ProRussia),
			strconv.Itoa(d.ProUkraine),
			strconv.Itoa(d.Unsure),
		})
	}
	printTable(cmd, []string{strings.ToUpper(string(grouping)), "RECORDS", "PRO_RUSSIA", "PRO_UKRAINE", "UNSURE"}, rows)
	return nil
}
