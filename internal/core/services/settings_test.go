package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stance-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), "/home/u/.stance/data/records.db")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultThreshold, settings.Classifier.Threshold, 1e-9)
	assert.Equal(t, "/home/u/.stance/data/records.db", settings.Database.Path)
	assert.Equal(t, domain.EuropeanCountries(), settings.Report.Countries)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("classifier.threshold", 0.75)
	_ = store.Set("database.path", "/data/tweets.db")
	_ = store.Set("report.countries", []string{"France"})

	service := NewSettingsService(store, "default.db")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.InDelta(t, 0.75, settings.Classifier.Threshold, 1e-9)
	assert.Equal(t, "/data/tweets.db", settings.Database.Path)
	assert.Equal(t, []string{"France"}, settings.Report.Countries)
}

func TestSettingsService_Get_NonNumericThreshold(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("classifier.threshold", "high")

	_, err := NewSettingsService(store, "").Get()
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
}

func TestSettingsService_SetThreshold(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, "")

	require.NoError(t, service.SetThreshold(0.5))
	v, ok := store.GetFloat("classifier.threshold")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	require.NoError(t, service.SetThreshold(0))
	require.NoError(t, service.SetThreshold(1))
}

func TestSettingsService_SetThreshold_OutOfRange(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, "")

	for _, bad := range []float64{-0.1, 1.01, 5} {
		assert.ErrorIs(t, service.SetThreshold(bad), domain.ErrInvalidThreshold)
	}
	_, exists := store.Get("classifier.threshold")
	assert.False(t, exists)
}

func TestSettingsService_SetDatabasePath(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, "default.db")

	require.NoError(t, service.SetDatabasePath("  /tmp/x.db "))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", settings.Database.Path)

	require.NoError(t, service.SetDatabasePath(""))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "default.db", settings.Database.Path)
}

func TestSettingsService_SetReportCountries(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, "")

	require.NoError(t, service.SetReportCountries([]string{" Spain", "", "Portugal "}))
	assert.Equal(t, []string{"Spain", "Portugal"}, store.GetStringSlice("report.countries"))

	err := service.SetReportCountries([]string{" ", ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, "")
	assert.NoError(t, service.Validate())

	// Hand-edited config files can hold values SetThreshold would reject
	_ = store.Set("classifier.threshold", 3.0)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidThreshold)
}
