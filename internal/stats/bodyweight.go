package stats

import (
	"slices"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

const (
	// trendWindow is the number of most recent entries considered for the
	// trend, regardless of how far apart they are in time.
	trendWindow = 5
	// trendThreshold is the change in kg above which a trend is reported.
	trendThreshold = 0.1
)

// BodyWeightStats summarises the body-weight log. Change, Week and Month are
// last-minus-first deltas in kg.
type BodyWeightStats struct {
	Current float64      `json:"current"`
	Start   float64      `json:"start"`
	Change  float64      `json:"change"`
	Min     float64      `json:"min"`
	Max     float64      `json:"max"`
	Trend   models.Trend `json:"trend"`
	Week    float64      `json:"week"`
	Month   float64      `json:"month"`
}

// SortedBodyWeight returns the entries ordered by ascending date.
func SortedBodyWeight(entries []models.BodyWeightEntry) []models.BodyWeightEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.BodyWeightEntry) int {
		return a.Date.Compare(b.Date.Time)
	})
	return sorted
}

// BodyWeight computes stats over the log relative to now.
func BodyWeight(entries []models.BodyWeightEntry, now time.Time) BodyWeightStats {
	sorted := SortedBodyWeight(entries)
	if len(sorted) == 0 {
		return BodyWeightStats{Trend: models.TrendStable}
	}

	s := BodyWeightStats{
		Current: sorted[len(sorted)-1].Weight,
		Start:   sorted[0].Weight,
		Min:     sorted[0].Weight,
		Max:     sorted[0].Weight,
	}
	s.Change = s.Current - s.Start
	for _, e := range sorted {
		s.Min = min(s.Min, e.Weight)
		s.Max = max(s.Max, e.Weight)
	}

	s.Week = windowDelta(sorted, now.Add(-7*24*time.Hour))
	s.Month = windowDelta(sorted, now.Add(-30*24*time.Hour))
	s.Trend = Trend(sorted)
	return s
}

// Trend compares the first and last of the most recent five entries, which
// must already be sorted by date.
func Trend(sorted []models.BodyWeightEntry) models.Trend {
	window := sorted[max(0, len(sorted)-trendWindow):]
	if len(window) < 2 {
		return models.TrendStable
	}
	first := window[0].Weight
	last := window[len(window)-1].Weight
	switch {
	case last-first > trendThreshold:
		return models.TrendUp
	case first-last > trendThreshold:
		return models.TrendDown
	}
	return models.TrendStable
}

// windowDelta is last-minus-first over entries dated on or after since, or 0
// with fewer than two samples.
func windowDelta(sorted []models.BodyWeightEntry, since time.Time) float64 {
	var in []models.BodyWeightEntry
	for _, e := range sorted {
		if !e.Date.Time.Before(since) {
			in = append(in, e)
		}
	}
	if len(in) < 2 {
		return 0
	}
	return in[len(in)-1].Weight - in[0].Weight
}

// CurrentWeight is the weight of the most recently dated entry, or 0.
func CurrentWeight(entries []models.BodyWeightEntry) float64 {
	sorted := SortedBodyWeight(entries)
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)-1].Weight
}
