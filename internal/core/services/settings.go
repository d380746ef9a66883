package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyThreshold       = "classifier.threshold"
	keyDatabasePath    = "database.path"
	keyReportCountries = "report.countries"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore   driven.ConfigStore
	defaultDBPath string
}

// NewSettingsService creates a new settings service. defaultDBPath is
// reported when no database path is configured.
func NewSettingsService(configStore driven.ConfigStore, defaultDBPath string) *SettingsService {
	return &SettingsService{
		configStore:   configStore,
		defaultDBPath: defaultDBPath,
	}
}

// Get retrieves current application settings with defaults applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	threshold := defaults.Classifier.Threshold
	if v, ok := s.configStore.GetFloat(keyThreshold); ok {
		threshold = v
	} else if _, exists := s.configStore.Get(keyThreshold); exists {
		return nil, fmt.Errorf("%s: %w", keyThreshold, domain.ErrInvalidThreshold)
	}

	countries := s.configStore.GetStringSlice(keyReportCountries)
	if len(countries) == 0 {
		countries = defaults.Report.Countries
	}

	return &domain.AppSettings{
		Classifier: domain.ClassifierSettings{
			Threshold: threshold,
		},
		Database: domain.DatabaseSettings{
			Path: s.getString(keyDatabasePath, s.defaultDBPath),
		},
		Report: domain.ReportSettings{
			Countries: countries,
		},
	}, nil
}

// SetThreshold sets the default classifier threshold.
func (s *SettingsService) SetThreshold(t float64) error {
	if err := domain.ValidateThreshold(t); err != nil {
		return err
	}
	if err := s.configStore.Set(keyThreshold, t); err != nil {
		return fmt.Errorf("save threshold: %w", err)
	}
	return nil
}

// SetDatabasePath sets the record store location. An empty path restores
// the default.
func (s *SettingsService) SetDatabasePath(path string) error {
	if err := s.configStore.Set(keyDatabasePath, strings.TrimSpace(path)); err != nil {
		return fmt.Errorf("save database path: %w", err)
	}
	return nil
}

// SetReportCountries sets the country set for regional reports.
// Blank entries are dropped; at least one country is required.
func (s *SettingsService) SetReportCountries(countries []string) error {
	cleaned := make([]string, 0, len(countries))
	for _, c := range countries {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: at least one country is required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyReportCountries, cleaned); err != nil {
		return fmt.Errorf("save report countries: %w", err)
	}
	return nil
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}
