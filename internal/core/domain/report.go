package domain

import (
	"fmt"
	"strings"
)

// Grouping selects the column stance distributions are grouped by.
type Grouping string

// Supported groupings.
const (
	GroupByCountry Grouping = "country"
	GroupByChannel Grouping = "channel"
)

// ParseGrouping validates a grouping name.
func ParseGrouping(s string) (Grouping, error) {
	switch g := Grouping(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupByCountry, GroupByChannel:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGrouping, s)
	}
}

// GroupCount is a record count for one group value.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// GroupAverage is an average entailment for one group value.
type GroupAverage struct {
	Group   string  `json:"group"`
	Average float64 `json:"average"`
	Samples int     `json:"samples"`
}

// OutletProfile is the per-hypothesis average entailment of one outlet.
type OutletProfile struct {
	Channel string `json:"channel"`
	Country string `json:"country"`
	Records int    `json:"records"`

	// Averages maps hypothesis keys (favor_russia, ...) to the mean
	// entailment. Hypotheses with no valid score are absent.
	Averages map[string]float64 `json:"averages"`
}

// StanceDistribution counts derived labels for one group value.
type StanceDistribution struct {
	Group      string `json:"group"`
	Records    int    `json:"records"`
	ProRussia  int    `json:"pro_russia"`
	ProUkraine int    `json:"pro_ukraine"`
	Unsure     int    `json:"unsure"`
}

// StanceQuery filters a stance distribution report.
type StanceQuery struct {
	GroupBy Grouping

	// Countries restricts the report to these countries when non-empty.
	Countries []string
}

// EuropeanCountries is the default country set for regional reports.
func EuropeanCountries() []string {
	return []string{
		"France", "Germany", "Italy", "Spain", "United Kingdom", "Poland",
		"Ukraine", "Netherlands", "Sweden", "Denmark", "Norway", "Austria",
		"Belgium", "Hungary", "Bulgaria", "Czech Republic", "Finland", "Greece",
		"Iceland", "Luxembourg", "Portugal", "Romania", "Russia",
		"Republic of Ireland", "Slovakia", "Switzerland", "Turkey",
	}
}
