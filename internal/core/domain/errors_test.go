package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidThreshold", ErrInvalidThreshold},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
		{"ErrUnknownHypothesis", ErrUnknownHypothesis},
		{"ErrUnknownGrouping", ErrUnknownGrouping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrInvalidThreshold_Wrapped(t *testing.T) {
	err := fmt.Errorf("classify: %w", ErrInvalidThreshold)
	assert.True(t, errors.Is(err, ErrInvalidThreshold))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}
