package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options are the global flags passed to the service factory.
type Options struct {
	// DBPath overrides the configured database location when non-empty.
	DBPath string

	// ConfigDir overrides ~/.stance when non-empty.
	ConfigDir string
}

// Services holds the driving ports the commands call.
type Services struct {
	Ingest     driving.IngestService
	Classifier driving.ClassifierService
	Schema     driving.SchemaService
	Report     driving.ReportService
	Settings   driving.SettingsService

	// Close releases the underlying stores. May be nil.
	Close func() error
}

// ServiceFactory builds services once global flags are parsed.
type ServiceFactory func(opts Options) (*Services, error)

// Services used by commands. Tests assign these directly.
var (
	ingestService     driving.IngestService
	classifierService driving.ClassifierService
	schemaService     driving.SchemaService
	reportService     driving.ReportService
	settingsService   driving.SettingsService
)

var (
	serviceFactory ServiceFactory
	closeServices  func() error

	flagDBPath    string
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "stance",
	Short: "Load, label and report on stance-scored posts",
	Long: `stance loads line-delimited JSON posts enriched with NLI stance scores into a
local SQLite database, derives pro_russia, pro_ukraine and unsure labels at a
confidence threshold, and reports on the results by country and outlet.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database file (default ~/.stance/data/records.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.stance)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print progress and debug output to stderr")
}

// SetServiceFactory registers the function that wires services.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.Execute()
	if closeErr := teardownServices(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

// ExitCode maps a command error to a process exit code. Invalid input and
// configuration errors exit with 2, everything else with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownHypothesis),
		errors.Is(err, domain.ErrUnknownGrouping):
		return 2
	default:
		return 1
	}
}

func setupServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if serviceFactory == nil {
		return nil
	}

	svc, err := serviceFactory(Options{
		DBPath:    flagDBPath,
		ConfigDir: flagConfigDir,
	})
	if err != nil {
		return err
	}

	ingestService = svc.Ingest
	classifierService = svc.Classifier
	schemaService = svc.Schema
	reportService = svc.Report
	settingsService = svc.Settings
	closeServices = svc.Close
	return nil
}

func teardownServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}
