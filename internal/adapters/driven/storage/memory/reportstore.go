package memory

import (
	"context"
	"sort"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// DistinctCountries counts distinct non-empty countries.
func (s *RecordStore) DistinctCountries(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rec := range s.records {
		if rec.Country != "" {
			seen[rec.Country] = struct{}{}
		}
	}
	return len(seen), nil
}

// CountByCountry counts records per country, largest first.
func (s *RecordStore) CountByCountry(_ context.Context) ([]domain.GroupCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range s.records {
		if rec.Country != "" {
			counts[rec.Country]++
		}
	}

	out := make([]domain.GroupCount, 0, len(counts))
	for group, n := range counts {
		out = append(out, domain.GroupCount{Group: group, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	return out, nil
}

// mean accumulates valid scores.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(p domain.Probability) {
	if p.Valid {
		m.sum += p.Value
		m.n++
	}
}

func (m mean) value() float64 {
	return m.sum / float64(m.n)
}

// AverageEntailmentByCountry averages one hypothesis per country.
func (s *RecordStore) AverageEntailmentByCountry(
	_ context.Context,
	h domain.Hypothesis,
) ([]domain.GroupAverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	means := make(map[string]*mean)
	for _, rec := range s.records {
		if rec.Country == "" {
			continue
		}
		for _, e := range rec.Stance {
			if e.Hypothesis != h {
				continue
			}
			m, ok := means[rec.Country]
			if !ok {
				m = &mean{}
				means[rec.Country] = m
			}
			m.add(e.EntailProb)
		}
	}

	out := make([]domain.GroupAverage, 0, len(means))
	for group, m := range means {
		if m.n == 0 {
			continue
		}
		out = append(out, domain.GroupAverage{Group: group, Average: m.value(), Samples: m.n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Group < out[j].Group
	})
	return out, nil
}

// OutletProfiles averages every hypothesis per (channel, country).
func (s *RecordStore) OutletProfiles(_ context.Context) ([]domain.OutletProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type outletKey struct{ channel, country string }
	type acc struct {
		records int
		means   map[domain.Hypothesis]*mean
	}

	accs := make(map[outletKey]*acc)
	var order []outletKey
	for _, rec := range s.records {
		if rec.Channel == "" || rec.Country == "" || len(rec.Stance) == 0 {
			continue
		}
		k := outletKey{rec.Channel, rec.Country}
		a, ok := accs[k]
		if !ok {
			a = &acc{means: make(map[domain.Hypothesis]*mean)}
			accs[k] = a
			order = append(order, k)
		}
		a.records++
		for _, e := range rec.Stance {
			if !e.Hypothesis.IsValid() {
				continue
			}
			m, ok := a.means[e.Hypothesis]
			if !ok {
				m = &mean{}
				a.means[e.Hypothesis] = m
			}
			m.add(e.EntailProb)
		}
	}

	out := make([]domain.OutletProfile, 0, len(order))
	for _, k := range order {
		a := accs[k]
		p := domain.OutletProfile{
			Channel:  k.channel,
			Country:  k.country,
			Records:  a.records,
			Averages: make(map[string]float64),
		}
		for h, m := range a.means {
			if m.n > 0 {
				p.Averages[h.Key()] = m.value()
			}
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		if out[i].Channel != out[j].Channel {
			return out[i].Channel < out[j].Channel
		}
		return out[i].Country < out[j].Country
	})
	return out, nil
}

// StanceDistribution sums derived labels per group.
func (s *RecordStore) StanceDistribution(
	_ context.Context,
	q domain.StanceQuery,
) ([]domain.StanceDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := make(map[string]bool, len(q.Countries))
	for _, c := range q.Countries {
		filter[c] = true
	}

	dists := make(map[string]*domain.StanceDistribution)
	for _, rec := range s.records {
		if len(filter) > 0 && !filter[rec.Country] {
			continue
		}
		group := rec.Country
		if q.GroupBy == domain.GroupByChannel {
			group = rec.Channel
		}
		d, ok := dists[group]
		if !ok {
			d = &domain.StanceDistribution{Group: group}
			dists[group] = d
		}
		d.Records++
		if rec.Labels != nil {
			r, u, n := rec.Labels.Ints()
			d.ProRussia += r
			d.ProUkraine += u
			d.Unsure += n
		}
	}

	out := make([]domain.StanceDistribution, 0, len(dists))
	for _, d := range dists {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		return out[i].Group < out[j].Group
	})
	return out, nil
}
