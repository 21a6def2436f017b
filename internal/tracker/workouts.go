package tracker

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/timer"
)

// Seed values for an exercise without history.
const (
	defaultSets = 3
	defaultReps = 10
)

// SetPatch holds set fields to change; nil fields are kept. Weight is
// rounded to 0.5 kg on write.
type SetPatch struct {
	Reps      *int     `json:"reps"`
	Weight    *float64 `json:"weight"`
	Completed *bool    `json:"completed"`
}

func workoutID(w models.Workout) string          { return w.ID }
func exerciseID(e models.WorkoutExercise) string { return e.ID }
func setID(s models.WorkoutSet) string           { return s.ID }

// History returns completed workouts, most recently finished first.
func History(data models.AppData) []models.Workout {
	var done []models.Workout
	for _, w := range data.Workouts {
		if w.Completed {
			done = append(done, w)
		}
	}
	slices.SortStableFunc(done, func(a, b models.Workout) int {
		return b.FinishedAt().Compare(a.FinishedAt())
	})
	return done
}

// LastExercise finds the exercise for templateID in the most recently
// finished workout that contains it.
func LastExercise(data models.AppData, templateID string) (models.WorkoutExercise, bool) {
	for _, w := range History(data) {
		if e, ok := w.Exercise(templateID); ok {
			return e, true
		}
	}
	return models.WorkoutExercise{}, false
}

// ExerciseHistory returns completed workouts containing templateID, newest
// first.
func ExerciseHistory(data models.AppData, templateID string) []models.Workout {
	var out []models.Workout
	for _, w := range History(data) {
		if _, ok := w.Exercise(templateID); ok {
			out = append(out, w)
		}
	}
	return out
}

// newExercise builds an idle exercise whose sets copy the reps and weight of
// the last completed session, or default to 3×10 at 0 kg.
func (t *Tracker) newExercise(data models.AppData, templateID string, order int) models.WorkoutExercise {
	var sets []models.WorkoutSet
	if last, ok := LastExercise(data, templateID); ok {
		sets = make([]models.WorkoutSet, len(last.Sets))
		for i, s := range last.Sets {
			sets[i] = models.WorkoutSet{ID: t.newID(), Reps: s.Reps, Weight: s.Weight}
		}
	} else {
		sets = make([]models.WorkoutSet, defaultSets)
		for i := range sets {
			sets[i] = models.WorkoutSet{ID: t.newID(), Reps: defaultReps}
		}
	}
	return models.WorkoutExercise{
		ID:         t.newID(),
		TemplateID: templateID,
		Sets:       sets,
		Order:      order,
		Timer:      timer.Default(false),
	}
}

// StartWorkout creates an incomplete workout. exerciseIDs, when non-nil,
// takes precedence over the exercises of the training day dayID.
func (t *Tracker) StartWorkout(data models.AppData, dayID string, exerciseIDs []string) (models.AppData, models.Workout, error) {
	ids := exerciseIDs
	if ids == nil && dayID != "" {
		day, ok := data.TrainingDay(dayID)
		if !ok {
			return data, models.Workout{}, fmt.Errorf("training day %s: %w", dayID, ErrNotFound)
		}
		ids = day.ExerciseIDs
	}

	exercises := make([]models.WorkoutExercise, len(ids))
	for i, tid := range ids {
		exercises[i] = t.newExercise(data, tid, i)
	}

	now := t.clock.Now()
	w := models.Workout{
		ID:        t.newID(),
		Date:      models.DateOf(now),
		DayID:     dayID,
		Exercises: exercises,
		StartedAt: now,
	}
	data.Workouts = appended(data.Workouts, w)
	return data, w, nil
}

func (t *Tracker) updateWorkout(data models.AppData, id string, fn func(models.Workout) (models.Workout, error)) (models.AppData, error) {
	workouts, err := replace(data.Workouts, workoutID, id, fn)
	if err != nil {
		return data, fmt.Errorf("workout %s: %w", id, err)
	}
	data.Workouts = workouts
	return data, nil
}

func (t *Tracker) updateExercise(data models.AppData, wid, eid string, fn func(models.WorkoutExercise) (models.WorkoutExercise, error)) (models.AppData, error) {
	return t.updateWorkout(data, wid, func(w models.Workout) (models.Workout, error) {
		exercises, err := replace(w.Exercises, exerciseID, eid, fn)
		if err != nil {
			return w, fmt.Errorf("exercise %s: %w", eid, err)
		}
		w.Exercises = exercises
		return w, nil
	})
}

// AddExercise appends an exercise to a workout, seeded from history.
func (t *Tracker) AddExercise(data models.AppData, wid, templateID string) (models.AppData, models.WorkoutExercise, error) {
	if _, ok := data.Template(templateID); !ok {
		return data, models.WorkoutExercise{}, NotFound("template", templateID)
	}
	var added models.WorkoutExercise
	out, err := t.updateWorkout(data, wid, func(w models.Workout) (models.Workout, error) {
		added = t.newExercise(data, templateID, len(w.Exercises))
		w.Exercises = appended(w.Exercises, added)
		return w, nil
	})
	return out, added, err
}

// DeleteExercise removes an exercise from a workout and renumbers the rest.
func (t *Tracker) DeleteExercise(data models.AppData, wid, eid string) (models.AppData, error) {
	return t.updateWorkout(data, wid, func(w models.Workout) (models.Workout, error) {
		exercises, err := without(w.Exercises, exerciseID, eid)
		if err != nil {
			return w, fmt.Errorf("exercise %s: %w", eid, err)
		}
		slices.SortStableFunc(exercises, func(a, b models.WorkoutExercise) int { return cmp.Compare(a.Order, b.Order) })
		for i := range exercises {
			exercises[i].Order = i
		}
		w.Exercises = exercises
		return w, nil
	})
}

// AddSet appends a set copying the reps and weight of the last one.
func (t *Tracker) AddSet(data models.AppData, wid, eid string) (models.AppData, models.WorkoutSet, error) {
	var added models.WorkoutSet
	out, err := t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		added = models.WorkoutSet{ID: t.newID(), Reps: defaultReps}
		if n := len(e.Sets); n > 0 {
			last := e.Sets[n-1]
			if last.Reps != 0 {
				added.Reps = last.Reps
			}
			added.Weight = last.Weight
		}
		e.Sets = appended(e.Sets, added)
		return e, nil
	})
	return out, added, err
}

// UpdateSet edits a set of a live workout.
func (t *Tracker) UpdateSet(data models.AppData, wid, eid, sid string, p SetPatch) (models.AppData, error) {
	return t.updateSet(data, wid, eid, sid, func(s models.WorkoutSet) models.WorkoutSet {
		s = applySetValues(s, p)
		if p.Completed != nil {
			s.Completed = *p.Completed
		}
		return s
	})
}

// EditCompletedSet edits the reps and weight of a set in a finished
// workout. Timers and completion flags are left alone.
func (t *Tracker) EditCompletedSet(data models.AppData, wid, eid, sid string, p SetPatch) (models.AppData, error) {
	return t.updateSet(data, wid, eid, sid, func(s models.WorkoutSet) models.WorkoutSet {
		return applySetValues(s, p)
	})
}

func applySetValues(s models.WorkoutSet, p SetPatch) models.WorkoutSet {
	if p.Reps != nil {
		s.Reps = max(*p.Reps, 0)
	}
	if p.Weight != nil {
		s.Weight = stats.RoundWeight(*p.Weight)
	}
	return s
}

func (t *Tracker) updateSet(data models.AppData, wid, eid, sid string, fn func(models.WorkoutSet) models.WorkoutSet) (models.AppData, error) {
	return t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		sets, err := replace(e.Sets, setID, sid, func(s models.WorkoutSet) (models.WorkoutSet, error) {
			return fn(s), nil
		})
		if err != nil {
			return e, fmt.Errorf("set %s: %w", sid, err)
		}
		e.Sets = sets
		return e, nil
	})
}

// DeleteSet removes a set from an exercise.
func (t *Tracker) DeleteSet(data models.AppData, wid, eid, sid string) (models.AppData, error) {
	return t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		sets, err := without(e.Sets, setID, sid)
		if err != nil {
			return e, fmt.Errorf("set %s: %w", sid, err)
		}
		e.Sets = sets
		return e, nil
	})
}

// CompleteWorkout marks a workout finished without a calorie estimate.
func (t *Tracker) CompleteWorkout(data models.AppData, wid string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateWorkout(data, wid, func(w models.Workout) (models.Workout, error) {
		w.Completed = true
		w.CompletedAt = &now
		return w, nil
	})
}

// CompleteWorkoutWithDetails marks a workout finished, records intensity
// and feeling, and estimates calories from the summed exercise time and the
// current body weight. Calories are 0 when no body weight is logged.
func (t *Tracker) CompleteWorkoutWithDetails(data models.AppData, wid string, intensity models.Intensity, feeling models.Feeling) (models.AppData, error) {
	if !intensity.Valid() {
		return data, fmt.Errorf("%w: intensity %q", ErrInvalid, intensity)
	}
	if feeling != "" && !feeling.Valid() {
		return data, fmt.Errorf("%w: feeling %q", ErrInvalid, feeling)
	}
	now := t.clock.Now()
	weight := stats.CurrentWeight(data.BodyWeight)
	return t.updateWorkout(data, wid, func(w models.Workout) (models.Workout, error) {
		total := 0
		for _, e := range w.Exercises {
			total += e.TotalTime
		}
		calories := 0
		if weight > 0 {
			calories = stats.WorkoutCalories(intensity, weight, total)
		}
		w.Completed = true
		w.CompletedAt = &now
		w.Intensity = intensity
		w.Feeling = feeling
		w.Calories = &calories
		return w, nil
	})
}

// DeleteWorkout removes a workout, also used to cancel an active one.
func (t *Tracker) DeleteWorkout(data models.AppData, wid string) (models.AppData, error) {
	workouts, err := without(data.Workouts, workoutID, wid)
	if err != nil {
		return data, fmt.Errorf("workout %s: %w", wid, err)
	}
	data.Workouts = workouts
	return data, nil
}

// StartExerciseTimer starts or resumes an exercise timer. A running or
// completed timer is left unchanged.
func (t *Tracker) StartExerciseTimer(data models.AppData, wid, eid string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		e.Timer = timer.Start(e.Timer, now)
		return e, nil
	})
}

// PauseExerciseTimer closes the running segment. Pausing a timer with no
// open segment leaves the data unchanged.
func (t *Tracker) PauseExerciseTimer(data models.AppData, wid, eid string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		e.Timer = timer.Pause(e.Timer, now)
		return e, nil
	})
}

// CompleteExerciseTimer finishes the exercise, closing any open segment.
func (t *Tracker) CompleteExerciseTimer(data models.AppData, wid, eid string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateExercise(data, wid, eid, func(e models.WorkoutExercise) (models.WorkoutExercise, error) {
		e.Timer = timer.Complete(e.Timer, now)
		e.Completed = true
		return e, nil
	})
}
