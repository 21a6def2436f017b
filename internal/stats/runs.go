package stats

import (
	"math"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// Pace holds the derived pace (seconds per km) and speed (km/h, 1 decimal).
type Pace struct {
	Pace  float64 `json:"pace"`
	Speed float64 `json:"speed"`
}

// RunPace derives pace and speed from a duration and distance. A zero or
// negative distance or duration yields the zero Pace.
func RunPace(seconds int, distanceKm float64) Pace {
	if distanceKm <= 0 || seconds <= 0 {
		return Pace{}
	}
	return Pace{
		Pace:  float64(seconds) / distanceKm,
		Speed: round1(distanceKm / float64(seconds) * 3600),
	}
}

// RunSummary aggregates completed runs. Distances are rounded to 0.1 km and
// paces to whole seconds per km.
type RunSummary struct {
	TotalRuns     int     `json:"totalRuns"`
	TotalDistance float64 `json:"totalDistance"`
	TotalTime     int     `json:"totalTime"`
	AvgPace       float64 `json:"avgPace"`
	AvgDistance   float64 `json:"avgDistance"`
	BestPace      float64 `json:"bestPace"`
	LongestRun    float64 `json:"longestRun"`
	WeekDistance  float64 `json:"weekDistance"`
	MonthDistance float64 `json:"monthDistance"`
}

// Runs summarises completed run sessions relative to now.
func Runs(data models.AppData, now time.Time) RunSummary {
	var (
		s        RunSummary
		distance float64
		longest  float64
		week     float64
		month    float64
		best     = math.Inf(1)
	)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	for _, r := range data.RunSessions {
		if !r.Completed {
			continue
		}
		s.TotalRuns++
		s.TotalTime += r.TotalTime
		distance += r.Distance
		longest = math.Max(longest, r.Distance)
		if r.Pace > 0 {
			best = math.Min(best, r.Pace)
		}
		if !r.Date.Time.Before(weekAgo) {
			week += r.Distance
		}
		if !r.Date.Time.Before(monthAgo) {
			month += r.Distance
		}
	}
	if s.TotalRuns == 0 {
		return RunSummary{}
	}

	if distance > 0 {
		s.AvgPace = math.Round(float64(s.TotalTime) / distance)
	}
	if !math.IsInf(best, 1) {
		s.BestPace = math.Round(best)
	}
	s.TotalDistance = round1(distance)
	s.AvgDistance = round1(distance / float64(s.TotalRuns))
	s.LongestRun = round1(longest)
	s.WeekDistance = round1(week)
	s.MonthDistance = round1(month)
	return s
}
