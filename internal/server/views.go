package server

import (
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/timer"
)

// Views add the live elapsed time of each timer, computed at request time.

type exerciseView struct {
	models.WorkoutExercise
	Elapsed int `json:"elapsed"`
}

type workoutView struct {
	models.Workout
	Exercises []exerciseView `json:"exercises"`
	Elapsed   int            `json:"elapsed"`
}

func newWorkoutView(w models.Workout, now time.Time) workoutView {
	v := workoutView{Workout: w, Exercises: make([]exerciseView, len(w.Exercises))}
	for i, e := range w.Exercises {
		elapsed := timer.Elapsed(e.Timer, now)
		v.Exercises[i] = exerciseView{WorkoutExercise: e, Elapsed: elapsed}
		v.Elapsed += elapsed
	}
	return v
}

type runView struct {
	models.RunSession
	Elapsed int `json:"elapsed"`
}

func newRunView(r models.RunSession, now time.Time) runView {
	return runView{RunSession: r, Elapsed: timer.Elapsed(r.Timer, now)}
}
