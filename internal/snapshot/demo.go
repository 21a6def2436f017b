package snapshot

import (
	"fmt"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

type demoSet struct {
	reps   int
	weight float64
}

type demoExercise struct {
	templateID string
	seconds    int
	sets       []demoSet
}

type demoRun struct {
	daysAgo  int
	seconds  int
	distance float64
	runType  models.RunType
	weather  models.Weather
	effort   int
	feeling  models.Feeling
	notes    string
	pace     float64
	speed    float64
}

// Demo returns the sample dataset used when nothing has been persisted yet.
// Dates are relative to now.
func Demo(now time.Time) models.AppData {
	now = now.UTC()
	day := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

	templates := []models.ExerciseTemplate{
		{ID: "t1", MachineNumber: "C01", Name: "Treadmill", Description: "Cardio warm-up", Category: models.CategoryCardio},
		{ID: "t2", MachineNumber: "C02", Name: "Exercise bike", Description: "Cardio", Category: models.CategoryCardio},
		{ID: "t3", MachineNumber: "M01", Name: "Leg press", Description: "Legs, quadriceps", Category: models.CategoryMachine},
		{ID: "t4", MachineNumber: "M02", Name: "Leg curl", Description: "Hamstrings", Category: models.CategoryMachine},
		{ID: "t5", MachineNumber: "M03", Name: "Lat pulldown", Description: "Lats, back", Category: models.CategoryMachine},
		{ID: "t6", MachineNumber: "M04", Name: "Chest press", Description: "Chest", Category: models.CategoryMachine},
		{ID: "t7", MachineNumber: "M05", Name: "Pec deck", Description: "Chest, isolation", Category: models.CategoryMachine},
		{ID: "t8", MachineNumber: "F01", Name: "Bench press", Description: "Barbell, chest", Category: models.CategoryFreeWeights},
		{ID: "t9", MachineNumber: "F02", Name: "Squat", Description: "Barbell, legs", Category: models.CategoryFreeWeights},
		{ID: "t10", MachineNumber: "F03", Name: "Biceps curl", Description: "Dumbbells", Category: models.CategoryFreeWeights},
		{ID: "t11", MachineNumber: "F04", Name: "French press", Description: "Dumbbells, triceps", Category: models.CategoryFreeWeights},
		{ID: "t12", MachineNumber: "F05", Name: "Dumbbell row", Description: "Back, lats", Category: models.CategoryFreeWeights},
	}
	for i := range templates {
		templates[i].CreatedAt = now
	}

	days := []models.TrainingDay{
		{ID: "d1", Name: "Chest + Triceps", WeekDays: []int{1, 4}, ExerciseIDs: []string{"t1", "t6", "t7", "t8", "t11"}},
		{ID: "d2", Name: "Back + Biceps", WeekDays: []int{2, 5}, ExerciseIDs: []string{"t1", "t5", "t12", "t10"}},
		{ID: "d3", Name: "Legs", WeekDays: []int{3, 6}, ExerciseIDs: []string{"t2", "t3", "t4", "t9"}},
	}

	var exerciseN, setN int
	workout := func(id, dayID string, daysAgo int, exercises ...demoExercise) models.Workout {
		at := day(daysAgo)
		w := models.Workout{
			ID:          id,
			Date:        models.DateOf(at),
			DayID:       dayID,
			Completed:   true,
			StartedAt:   at,
			CompletedAt: &at,
		}
		for order, de := range exercises {
			exerciseN++
			e := models.WorkoutExercise{
				ID:         fmt.Sprintf("we%d", exerciseN),
				TemplateID: de.templateID,
				Completed:  true,
				Order:      order,
				Timer: models.Timer{
					Status:    models.TimerCompleted,
					TotalTime: de.seconds,
					Segments:  []models.Segment{},
				},
			}
			for _, s := range de.sets {
				setN++
				e.Sets = append(e.Sets, models.WorkoutSet{ID: fmt.Sprintf("s%d", setN), Reps: s.reps, Weight: s.weight, Completed: true})
			}
			w.Exercises = append(w.Exercises, e)
		}
		return w
	}

	workouts := []models.Workout{
		workout("w1", "d1", 7,
			demoExercise{"t6", 420, []demoSet{{12, 40}, {10, 45}, {8, 50}}},
			demoExercise{"t8", 380, []demoSet{{10, 50}, {8, 55}, {6, 60}}},
		),
		workout("w2", "d2", 5,
			demoExercise{"t5", 350, []demoSet{{12, 35}, {10, 40}, {10, 40}}},
			demoExercise{"t10", 290, []demoSet{{12, 12}, {10, 14}, {8, 14}}},
		),
		workout("w3", "d3", 3,
			demoExercise{"t3", 520, []demoSet{{15, 80}, {12, 100}, {10, 120}, {8, 140}}},
			demoExercise{"t9", 450, []demoSet{{10, 60}, {8, 70}, {6, 80}}},
		),
	}

	weights := []float64{85.5, 85.0, 84.5, 84.0, 84.2, 83.8, 83.5, 83.0, 82.8, 82.5, 82.2}
	bodyWeight := make([]models.BodyWeightEntry, len(weights))
	for i, kg := range weights {
		at := day(30 - 3*i)
		bodyWeight[i] = models.BodyWeightEntry{
			ID:        fmt.Sprintf("bw%d", i+1),
			Date:      models.DateOf(at),
			Weight:    kg,
			CreatedAt: at,
		}
	}

	demoRuns := []demoRun{
		{14, 1800, 5.2, models.RunRunning, models.WeatherSunny, 5, models.FeelingGood, "Morning run in the park", 346, 10.4},
		{10, 2700, 7.5, models.RunRunning, models.WeatherCloudy, 7, models.FeelingOkay, "Tempo session", 360, 10.0},
		{7, 3600, 10.0, models.RunRunning, models.WeatherSunny, 6, models.FeelingGreat, "Long run through the forest", 360, 10.0},
		{3, 2400, 3.2, models.RunWalking, "", 3, models.FeelingGood, "Evening walk", 750, 4.8},
	}
	runs := make([]models.RunSession, len(demoRuns))
	for i, r := range demoRuns {
		at := day(r.daysAgo)
		runs[i] = models.RunSession{
			ID:          fmt.Sprintf("r%d", i+1),
			Date:        models.DateOf(at),
			Distance:    r.distance,
			RunType:     r.runType,
			Weather:     r.weather,
			Effort:      r.effort,
			Feeling:     r.feeling,
			Notes:       r.notes,
			Pace:        r.pace,
			Speed:       r.speed,
			Completed:   true,
			CompletedAt: &at,
			Timer: models.Timer{
				Status:    models.TimerCompleted,
				TotalTime: r.seconds,
				Segments:  []models.Segment{},
			},
		}
	}

	return models.AppData{
		Templates:    templates,
		TrainingDays: days,
		Workouts:     workouts,
		BodyWeight:   bodyWeight,
		RunSessions:  runs,
		UserProfile:  models.UserProfile{},
	}
}
