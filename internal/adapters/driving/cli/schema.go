package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create and evolve the records table",
}

var schemaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the records table",
	Long:  `Creates the records table and run history if they do not exist. Safe to run repeatedly.`,
	Args:  cobra.NoArgs,
	RunE:  runSchemaInit,
}

var schemaAddColumnsCmd = &cobra.Command{
	Use:   "add-columns",
	Short: "Add the derived label columns",
	Long: `Adds the pro_russia, pro_ukraine and unsure columns to the records table.
Columns that already exist are left alone. classify runs this automatically.`,
	Args: cobra.NoArgs,
	RunE: runSchemaAddColumns,
}

func init() {
	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaAddColumnsCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaInit(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	if err := schemaService.Init(context.Background()); err != nil {
		return fmt.Errorf("schema init failed: %w", err)
	}

	cmd.Println("Records table ready.")
	return nil
}

func runSchemaAddColumns(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	added, err := schemaService.AddLabelColumns(context.Background())
	if err != nil {
		return fmt.Errorf("adding columns failed: %w", err)
	}

	if len(added) == 0 {
		cmd.Println("Label columns already present.")
		return nil
	}
	cmd.Printf("Added columns: %s\n", strings.Join(added, ", "))
	return nil
}
