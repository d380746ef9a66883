package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
)

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// DistinctCountries counts distinct non-empty countries.
func (s *reportStore) DistinctCountries(ctx context.Context) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT country)
		FROM records
		WHERE country IS NOT NULL AND country != ''
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting countries: %w", err)
	}
	return n, nil
}

// CountByCountry counts records per country, largest first.
func (s *reportStore) CountByCountry(ctx context.Context) ([]domain.GroupCount, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT country, COUNT(*) AS entry_count
		FROM records
		WHERE country IS NOT NULL AND country != ''
		GROUP BY country
		ORDER BY entry_count DESC, country ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying country counts: %w", err)
	}
	defer rows.Close()

	var out []domain.GroupCount //nolint:prealloc // size unknown from query
	for rows.Next() {
		var gc domain.GroupCount
		if err := rows.Scan(&gc.Group, &gc.Count); err != nil {
			return nil, fmt.Errorf("scanning country count: %w", err)
		}
		out = append(out, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating country counts: %w", err)
	}
	return out, nil
}

// AverageEntailmentByCountry averages one hypothesis per country.
func (s *reportStore) AverageEntailmentByCountry(
	ctx context.Context,
	h domain.Hypothesis,
) ([]domain.GroupAverage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT
			records.country,
			AVG(stance_prob(json_extract(s.value, '$.entail_prob'))) AS avg_entail_prob,
			COUNT(stance_prob(json_extract(s.value, '$.entail_prob'))) AS samples
		FROM records, json_each(records.stance) AS s
		WHERE records.stance IS NOT NULL
			AND records.country IS NOT NULL AND records.country != ''
			AND json_extract(s.value, '$.hypothesis') = ?
		GROUP BY records.country
		HAVING COUNT(stance_prob(json_extract(s.value, '$.entail_prob'))) > 0
		ORDER BY avg_entail_prob DESC, records.country ASC
	`, string(h))
	if err != nil {
		return nil, fmt.Errorf("querying average entailment: %w", err)
	}
	defer rows.Close()

	var out []domain.GroupAverage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ga domain.GroupAverage
		if err := rows.Scan(&ga.Group, &ga.Average, &ga.Samples); err != nil {
			return nil, fmt.Errorf("scanning average entailment: %w", err)
		}
		out = append(out, ga)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating average entailment: %w", err)
	}
	return out, nil
}

// OutletProfiles averages every hypothesis per (channel, country).
func (s *reportStore) OutletProfiles(ctx context.Context) ([]domain.OutletProfile, error) {
	hyps := domain.AllHypotheses()

	// One AVG column per hypothesis; each hypothesis is a bound parameter.
	avgCols := make([]string, len(hyps))
	args := make([]any, len(hyps))
	for i, h := range hyps {
		avgCols[i] = `AVG(CASE WHEN json_extract(s.value, '$.hypothesis') = ?
			THEN stance_prob(json_extract(s.value, '$.entail_prob')) END)`
		args[i] = string(h)
	}

	query := `
		SELECT
			records.channel,
			records.country,
			COUNT(DISTINCT records.id) AS record_count,
			` + strings.Join(avgCols, ",\n\t\t\t") + `
		FROM records, json_each(records.stance) AS s
		WHERE records.channel IS NOT NULL AND records.channel != ''
			AND records.country IS NOT NULL AND records.country != ''
		GROUP BY records.channel, records.country
		ORDER BY record_count DESC, records.channel ASC, records.country ASC
	`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying outlet profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.OutletProfile //nolint:prealloc // size unknown from query
	for rows.Next() {
		p := domain.OutletProfile{Averages: make(map[string]float64, len(hyps))}
		avgs := make([]sql.NullFloat64, len(hyps))
		dest := []any{&p.Channel, &p.Country, &p.Records}
		for i := range avgs {
			dest = append(dest, &avgs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning outlet profile: %w", err)
		}
		for i, avg := range avgs {
			if avg.Valid {
				p.Averages[hyps[i].Key()] = avg.Float64
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outlet profiles: %w", err)
	}
	return out, nil
}

// StanceDistribution sums the derived labels per group. Before the label
// columns exist every sum is zero.
func (s *reportStore) StanceDistribution(
	ctx context.Context,
	q domain.StanceQuery,
) ([]domain.StanceDistribution, error) {
	var groupCol string
	switch q.GroupBy {
	case domain.GroupByCountry, "":
		groupCol = "country"
	case domain.GroupByChannel:
		groupCol = "channel"
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGrouping, q.GroupBy)
	}

	labelled, err := hasLabelColumns(ctx, s.store.db)
	if err != nil {
		return nil, err
	}
	sums := "0, 0, 0"
	if labelled {
		sums = "COALESCE(SUM(pro_russia), 0), COALESCE(SUM(pro_ukraine), 0), COALESCE(SUM(unsure), 0)"
	}

	var where string
	var args []any
	if len(q.Countries) > 0 {
		placeholders := make([]string, len(q.Countries))
		for i, c := range q.Countries {
			placeholders[i] = "?"
			args = append(args, c)
		}
		where = "WHERE country IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(%s, '') AS grp, COUNT(*) AS record_count, %s
		FROM records
		%s
		GROUP BY grp
		ORDER BY record_count DESC, grp ASC
	`, groupCol, sums, where)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stance distribution: %w", err)
	}
	defer rows.Close()

	var out []domain.StanceDistribution //nolint:prealloc // size unknown from query
	for rows.Next() {
		var d domain.StanceDistribution
		if err := rows.Scan(&d.Group, &d.Records, &d.ProRussia, &d.ProUkraine, &d.Unsure); err != nil {
			return nil, fmt.Errorf("scanning stance distribution: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stance distribution: %w", err)
	}
	return out, nil
}
