package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the classifier threshold, database location and the
country set used by regional reports. Settings live in ~/.stance/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsThresholdCmd = &cobra.Command{
	Use:   "threshold <value>",
	Short: "Set the default classifier threshold",
	Long:  `Set the entailment confidence classify uses without --threshold. Must be within [0, 1].`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsThreshold,
}

var settingsDatabaseCmd = &cobra.Command{
	Use:   "database <path>",
	Short: "Set the database file",
	Long:  `Set the SQLite database file. An empty path restores the default location.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsDatabase,
}

var settingsCountriesCmd = &cobra.Command{
	Use:   "countries <country>...",
	Short: "Set the countries used by report stance --europe",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsCountries,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThresholdCmd)
	settingsCmd.AddCommand(settingsDatabaseCmd)
	settingsCmd.AddCommand(settingsCountriesCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Classifier]")
	cmd.Printf("  Threshold: %g\n", settings.Classifier.Threshold)
	cmd.Println()

	cmd.Println("[Database]")
	cmd.Printf("  Path: %s\n", settings.Database.Path)
	cmd.Println()

	cmd.Println("[Report]")
	cmd.Printf("  Countries: %s\n", strings.Join(settings.Report.Countries, ", "))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'stance settings threshold <value>' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsThreshold(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidThreshold, args[0])
	}
	if err := settingsService.SetThreshold(t); err != nil {
		return fmt.Errorf("failed to set threshold: %w", err)
	}

	cmd.Printf("Classifier threshold set to: %g\n", t)
	return nil
}

func runSettingsDatabase(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetDatabasePath(args[0]); err != nil {
		return fmt.Errorf("failed to set database path: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Database path set to: %s\n", settings.Database.Path)
	return nil
}

func runSettingsCountries(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetReportCountries(args); err != nil {
		return fmt.Errorf("failed to set report countries: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Report countries set to: %s\n", strings.Join(settings.Report.Countries, ", "))
	return nil
}
