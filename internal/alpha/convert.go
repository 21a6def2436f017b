package alpha

import (
	"slices"
	"strings"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/timer"
)

// Result counts what Merge changed.
type Result struct {
	Workouts  int
	Skipped   int
	Templates int
}

// WorkoutID is the stable id of the workout imported from s, so re-importing
// an export never duplicates sessions.
func WorkoutID(s Session) string {
	return "alpha-" + s.Start.Format("20060102T1504")
}

// Merge appends each session as a completed workout. Exercises are matched
// to catalog templates by name, ignoring case; unknown names are added to the
// catalog. Session time is split evenly over the exercise timers. data is not
// modified.
func Merge(data models.AppData, sessions []Session, newID func() string) (models.AppData, Result) {
	var res Result
	data.Templates = slices.Clone(data.Templates)
	data.Workouts = slices.Clone(data.Workouts)

	byName := make(map[string]string, len(data.Templates))
	for _, t := range data.Templates {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	for _, s := range sessions {
		id := WorkoutID(s)
		if _, ok := data.Workout(id); ok {
			res.Skipped++
			continue
		}

		end := s.Start.Add(s.Duration)
		w := models.Workout{
			ID:          id,
			Date:        models.DateOf(s.Start),
			Completed:   true,
			StartedAt:   s.Start,
			CompletedAt: &end,
			Exercises:   make([]models.WorkoutExercise, 0, len(s.Exercises)),
		}

		seconds := exerciseSeconds(int(s.Duration.Seconds()), len(s.Exercises))
		for i, e := range s.Exercises {
			tid, ok := byName[strings.ToLower(e.Name)]
			if !ok {
				t := models.ExerciseTemplate{
					ID:          newID(),
					Name:        e.Name,
					Description: e.Equipment,
					Category:    categoryFor(e.Equipment),
					CreatedAt:   s.Start,
				}
				data.Templates = append(data.Templates, t)
				byName[strings.ToLower(e.Name)] = t.ID
				tid = t.ID
				res.Templates++
			}

			working := e.WorkingSets()
			sets := make([]models.WorkoutSet, len(working))
			for j, set := range working {
				sets[j] = models.WorkoutSet{
					ID:        newID(),
					Reps:      set.Reps,
					Weight:    stats.RoundWeight(set.Weight),
					Completed: true,
				}
			}

			t := timer.Default(true)
			t.TotalTime = seconds[i]
			w.Exercises = append(w.Exercises, models.WorkoutExercise{
				ID:         newID(),
				TemplateID: tid,
				Sets:       sets,
				Completed:  true,
				Order:      i,
				Timer:      t,
			})
		}

		data.Workouts = append(data.Workouts, w)
		res.Workouts++
	}
	return data, res
}

// exerciseSeconds splits total over n exercises, giving the remainder to the
// last one.
func exerciseSeconds(total, n int) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] = total / n
	}
	out[n-1] += total % n
	return out
}

func categoryFor(equipment string) models.Category {
	eq := strings.ToLower(equipment)
	for _, m := range []string{"machine", "cable", "smith"} {
		if strings.Contains(eq, m) {
			return models.CategoryMachine
		}
	}
	return models.CategoryFreeWeights
}
