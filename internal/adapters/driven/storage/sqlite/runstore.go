package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun records a finished run.
func (s *runStore) SaveRun(ctx context.Context, run *domain.ClassificationRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO classification_runs
			(id, threshold, started_at, ended_at, success, error, records, pro_russia, pro_ukraine, unsure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			success = excluded.success,
			error = excluded.error,
			records = excluded.records,
			pro_russia = excluded.pro_russia,
			pro_ukraine = excluded.pro_ukraine,
			unsure = excluded.unsure
	`, run.ID, run.Threshold,
		run.StartedAt.UTC().Format(timeLayout),
		formatNullableTime(run.EndedAt),
		boolToInt(run.Success),
		nullString(run.Error),
		run.Summary.Records, run.Summary.ProRussia, run.Summary.ProUkraine, run.Summary.Unsure)

	if err != nil {
		return fmt.Errorf("saving classification run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.ClassificationRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, threshold, started_at, ended_at, success, error, records, pro_russia, pro_ukraine, unsure
		FROM classification_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying classification runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ClassificationRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classification runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (*domain.ClassificationRun, error) {
	var run domain.ClassificationRun
	var startedAt string
	var endedAt, runErr sql.NullString
	var success int

	if err := rows.Scan(&run.ID, &run.Threshold, &startedAt, &endedAt, &success, &runErr,
		&run.Summary.Records, &run.Summary.ProRussia, &run.Summary.ProUkraine, &run.Summary.Unsure); err != nil {
		return nil, fmt.Errorf("scanning classification run: %w", err)
	}

	run.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		run.EndedAt = parseTime(endedAt.String)
	}
	run.Success = success == 1
	run.Error = runErr.String

	return &run, nil
}

func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Fall back for rows written by other tools
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
