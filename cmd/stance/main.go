// Command stance loads stance-scored posts into SQLite, labels them and
// reports on the results.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/stance-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/stance-cli/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/stance-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/stance-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/stance-cli/internal/core/services"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

// newServices wires the SQLite store, TOML config and JSONL decoder into
// the core services. The database path comes from --db, then the
// database.path setting, then ~/.stance/data/records.db.
func newServices(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	defaultDBPath, err := sqlite.DefaultPath()
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore, defaultDBPath)

	dbPath := opts.DBPath
	if dbPath == "" {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		dbPath = settings.Database.Path
	}

	logger.Debug("opening database %s", dbPath)
	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	recordStore := store.RecordStore()
	return &cli.Services{
		Ingest:     services.NewIngestService(recordStore, jsonl.New()),
		Classifier: services.NewClassifierService(recordStore, store.RunStore()),
		Schema:     services.NewSchemaService(recordStore),
		Report:     services.NewReportService(recordStore, store.ReportStore()),
		Settings:   settingsService,
		Close:      store.Close,
	}, nil
}
