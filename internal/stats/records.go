package stats

import (
	"cmp"
	"slices"

	"github.com/meltforce/fittrack/internal/models"
)

// PersonalRecord is the heaviest completed set logged for a template.
type PersonalRecord struct {
	TemplateID string                  `json:"templateId"`
	Template   models.ExerciseTemplate `json:"template"`
	MaxWeight  float64                 `json:"maxWeight"`
}

// PersonalRecords returns, per catalog template, the max weight over
// completed sets of completed workouts, heaviest first. Templates without a
// positive record are omitted.
func PersonalRecords(data models.AppData) []PersonalRecord {
	best := make(map[string]float64)
	for _, w := range data.Workouts {
		if !w.Completed {
			continue
		}
		for _, e := range w.Exercises {
			for _, s := range e.Sets {
				if s.Completed && s.Weight > best[e.TemplateID] {
					best[e.TemplateID] = s.Weight
				}
			}
		}
	}

	var records []PersonalRecord
	for _, t := range data.Templates {
		if w := best[t.ID]; w > 0 {
			records = append(records, PersonalRecord{TemplateID: t.ID, Template: t, MaxWeight: w})
		}
	}
	slices.SortStableFunc(records, func(a, b PersonalRecord) int {
		return cmp.Compare(b.MaxWeight, a.MaxWeight)
	})
	return records
}

// WorkoutTotals counts completed training volume.
type WorkoutTotals struct {
	Workouts int     `json:"workouts"`
	Sets     int     `json:"sets"`
	Volume   float64 `json:"volume"`
}

// Totals sums completed sets and reps×weight volume over completed workouts.
func Totals(data models.AppData) WorkoutTotals {
	var t WorkoutTotals
	for _, w := range data.Workouts {
		if !w.Completed {
			continue
		}
		t.Workouts++
		for _, e := range w.Exercises {
			for _, s := range e.Sets {
				if s.Completed {
					t.Sets++
					t.Volume += float64(s.Reps) * s.Weight
				}
			}
		}
	}
	return t
}
