package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultThreshold, s.Classifier.Threshold)
	assert.Empty(t, s.Database.Path)
	assert.Equal(t, EuropeanCountries(), s.Report.Countries)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantErr   bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"default", 0.9, false},
		{"negative", -0.1, true},
		{"above one", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			s.Classifier.Threshold = tt.threshold
			err := s.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidThreshold))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
