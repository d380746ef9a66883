package domain

// ClassifierSettings holds stance classifier settings.
type ClassifierSettings struct {
	// Threshold is the default entailment confidence for classify runs.
	Threshold float64
}

// DatabaseSettings holds record store settings.
type DatabaseSettings struct {
	// Path is the SQLite database file. Empty selects the default location.
	Path string
}

// ReportSettings holds reporting defaults.
type ReportSettings struct {
	// Countries is the country set used by regional stance reports.
	Countries []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Classifier holds classifier settings.
	Classifier ClassifierSettings

	// Database holds record store settings.
	Database DatabaseSettings

	// Report holds reporting defaults.
	Report ReportSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Classifier: ClassifierSettings{
			Threshold: DefaultThreshold,
		},
		Report: ReportSettings{
			Countries: EuropeanCountries(),
		},
	}
}

// Validate checks the settings for values the classifier would reject.
func (s AppSettings) Validate() error {
	return ValidateThreshold(s.Classifier.Threshold)
}
