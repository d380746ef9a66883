package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

func TestRunStore_ListRuns_MostRecentFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.SaveRun(ctx, &domain.ClassificationRun{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-1", runs[2].ID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunStore_SaveRun_ReplacesSameID(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, &domain.ClassificationRun{ID: "r"}))
	require.NoError(t, store.SaveRun(ctx, &domain.ClassificationRun{ID: "r", Success: true}))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Success)

	assert.ErrorIs(t, store.SaveRun(ctx, nil), domain.ErrInvalidInput)
}
