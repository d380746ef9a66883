package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stance-cli/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/stance-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/services"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// sampleRecords classifies at 0.9 to one pro_russia, one pro_ukraine and two unsure.
const sampleRecords = `{"tweet_id":"1","channel":"RT","country":"Russia","en_text":"Russia is right","stance":[{"hypothesis":"This statement is in favour of Russia","entail_prob":"0.95","contra_prob":"0.01"}]}
{"tweet_id":"2","channel":"RT","country":"Russia","en_text":"Maybe","stance":[{"hypothesis":"This statement is in favour of Russia","entail_prob":"0.75","contra_prob":"0.1"}]}
{"tweet_id":"3","channel":"BBC","country":"United Kingdom","en_text":"Support Ukraine","stance":[{"hypothesis":"This statement is in favour of Ukraine","entail_prob":"0.93","contra_prob":"0.02"}]}
{"tweet_id":"4","channel":"Local"}
`

// testEnv wires real services over in-memory stores.
type testEnv struct {
	store  *memory.RecordStore
	runs   *memory.RunStore
	config *memory.ConfigStore
	dir    string
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	logs := new(bytes.Buffer)
	logger.SetOutput(logs)

	env := &testEnv{
		store:  memory.NewRecordStore(),
		runs:   memory.NewRunStore(),
		config: memory.NewConfigStore(),
		dir:    t.TempDir(),
	}
	require.NoError(t, env.store.CreateSchema(context.Background()))

	ingestService = services.NewIngestService(env.store, jsonl.New())
	classifierService = services.NewClassifierService(env.store, env.runs)
	schemaService = services.NewSchemaService(env.store)
	reportService = services.NewReportService(env.store, env.store)
	settingsService = services.NewSettingsService(env.config, filepath.Join(env.dir, "records.db"))

	resetFlags(rootCmd)
	t.Cleanup(func() {
		ingestService = nil
		classifierService = nil
		schemaService = nil
		reportService = nil
		settingsService = nil
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})
	return env
}

// resetFlags restores every flag to its default so values do not leak
// between command executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writeSample writes content to a file in the test directory.
func (e *testEnv) writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// load ingests sampleRecords directly through the ingest service.
func (e *testEnv) load(t *testing.T) {
	t.Helper()
	path := e.writeSample(t, "sample.jsonl", sampleRecords)
	_, err := ingestService.IngestFile(context.Background(), path)
	require.NoError(t, err)
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "stance", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"db", "config-dir", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "line", "schema", "classify", "report", "head", "settings", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"threshold", fmt.Errorf("classify failed: %w", domain.ErrInvalidThreshold), 2},
		{"input", domain.ErrInvalidInput, 2},
		{"hypothesis", fmt.Errorf("report failed: %w", domain.ErrUnknownHypothesis), 2},
		{"grouping", domain.ErrUnknownGrouping, 2},
		{"other", errors.New("disk full"), 1},
		{"store", domain.ErrStoreUnavailable, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestSetupServices_UsesFactory(t *testing.T) {
	env := setupTestServices(t)

	var gotOpts Options
	closed := 0
	SetServiceFactory(func(opts Options) (*Services, error) {
		gotOpts = opts
		return &Services{
			Schema: services.NewSchemaService(env.store),
			Close: func() error {
				closed++
				return nil
			},
		}, nil
	})
	t.Cleanup(func() { SetServiceFactory(nil) })

	out, err := execute(t, "--db", "/tmp/x.db", "--config-dir", "/tmp/cfg", "schema", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Records table ready.")
	assert.Equal(t, Options{DBPath: "/tmp/x.db", ConfigDir: "/tmp/cfg"}, gotOpts)

	require.NoError(t, teardownServices())
	assert.Equal(t, 1, closed)
	require.NoError(t, teardownServices())
	assert.Equal(t, 1, closed)
}

func TestSetupServices_FactoryError(t *testing.T) {
	setupTestServices(t)

	SetServiceFactory(func(Options) (*Services, error) {
		return nil, errors.New("database locked")
	})
	t.Cleanup(func() { SetServiceFactory(nil) })

	_, err := execute(t, "schema", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestExecute_ClosesServices(t *testing.T) {
	env := setupTestServices(t)

	closed := false
	SetServiceFactory(func(Options) (*Services, error) {
		return &Services{
			Schema: services.NewSchemaService(env.store),
			Close: func() error {
				closed = true
				return errors.New("close failed")
			},
		}, nil
	})
	t.Cleanup(func() { SetServiceFactory(nil) })

	rootCmd.SetArgs([]string{"schema", "init"})
	err := Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.True(t, closed)
}

func TestCommands_WithoutServices(t *testing.T) {
	setupTestServices(t)
	ingestService = nil
	classifierService = nil
	schemaService = nil
	reportService = nil
	settingsService = nil

	for _, args := range [][]string{
		{"ingest", "a.jsonl"},
		{"line", "a.jsonl", "1"},
		{"schema", "init"},
		{"classify"},
		{"report", "countries"},
		{"head"},
		{"settings", "show"},
	} {
		_, err := execute(t, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "not configured", args)
	}
}
