package driving

import "github.com/custodia-labs/stance-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns current settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// SetThreshold sets the default classifier threshold.
	// Returns domain.ErrInvalidThreshold outside [0, 1].
	SetThreshold(t float64) error

	// SetDatabasePath sets the record store location.
	SetDatabasePath(path string) error

	// SetReportCountries sets the country set for regional reports.
	SetReportCountries(countries []string) error

	// Validate checks the stored settings.
	Validate() error
}
