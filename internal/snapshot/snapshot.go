// Package snapshot encodes the persisted AppData document and upgrades
// documents written by older versions.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/timer"
)

// Key names the document in key/value style storage backends.
const Key = "gym_app_data"

// Decode parses a persisted document and backfills fields introduced by
// later versions. Documents that are not a JSON object, or whose enum
// fields hold unknown values, are rejected.
func Decode(raw []byte) (models.AppData, error) {
	var data models.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.AppData{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return Migrate(data), nil
}

// Encode serialises data after migrating it, so nil collections are
// written as empty lists.
func Encode(data models.AppData) ([]byte, error) {
	raw, err := json.Marshal(Migrate(data))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return raw, nil
}

// Migrate backfills missing collections and timer fields. Applying it to an
// already migrated document returns an equal document.
func Migrate(data models.AppData) models.AppData {
	data.Templates = orEmpty(data.Templates)
	data.TrainingDays = orEmpty(data.TrainingDays)
	data.BodyWeight = orEmpty(data.BodyWeight)
	data.RunSessions = orEmpty(data.RunSessions)

	days := make([]models.TrainingDay, len(data.TrainingDays))
	for i, d := range data.TrainingDays {
		d.WeekDays = orEmpty(d.WeekDays)
		d.ExerciseIDs = orEmpty(d.ExerciseIDs)
		days[i] = d
	}
	data.TrainingDays = days

	workouts := make([]models.Workout, len(data.Workouts))
	for i, w := range data.Workouts {
		exercises := make([]models.WorkoutExercise, len(w.Exercises))
		for j, e := range w.Exercises {
			e.Sets = orEmpty(e.Sets)
			e.Timer = migrateTimer(e.Timer, e.Completed)
			exercises[j] = e
		}
		w.Exercises = exercises
		workouts[i] = w
	}
	data.Workouts = workouts

	runs := make([]models.RunSession, len(data.RunSessions))
	for i, r := range data.RunSessions {
		r.Timer = migrateTimer(r.Timer, r.Completed)
		runs[i] = r
	}
	data.RunSessions = runs
	return data
}

func migrateTimer(t models.Timer, completed bool) models.Timer {
	if t.Status == "" {
		t.Status = timer.Default(completed).Status
	}
	t.TotalTime = max(t.TotalTime, 0)
	t.Segments = orEmpty(t.Segments)
	return t
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
