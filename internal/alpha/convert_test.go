package alpha

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("x%d", n)
	}
}

// TestMerge verifies sessions become completed workouts with working sets
// only, matched or new templates and evenly split exercise time.
func TestMerge(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	base := snapshot.Migrate(models.AppData{
		Templates: []models.ExerciseTemplate{{ID: "t8", Name: "bench press", Category: models.CategoryFreeWeights}},
	})

	got, res := Merge(base, sessions, sequence())
	if res.Workouts != 2 || res.Skipped != 0 || res.Templates != 5 {
		t.Errorf("result = %+v, want 2 workouts, 5 new templates", res)
	}
	if len(base.Workouts) != 0 || len(base.Templates) != 1 {
		t.Error("input data was modified")
	}

	legs, ok := got.Workout("alpha-20260219T0454")
	if !ok {
		t.Fatal("legs session not imported")
	}
	if !legs.Completed || legs.CompletedAt == nil || legs.CompletedAt.Sub(legs.StartedAt).Minutes() != 62 {
		t.Errorf("legs workout = %+v", legs)
	}
	total := 0
	for _, e := range legs.Exercises {
		if e.Status != models.TimerCompleted || !e.Completed {
			t.Errorf("exercise %s not completed", e.ID)
		}
		total += e.TotalTime
	}
	if total != 3720 || legs.Exercises[0].TotalTime != 744 {
		t.Errorf("exercise time total %d, first %d; want 3720, 744", total, legs.Exercises[0].TotalTime)
	}
	if sets := legs.Exercises[0].Sets; len(sets) != 3 || sets[0].Weight != 115 || !sets[0].Completed {
		t.Errorf("hack squat sets = %+v", sets)
	}

	hack, _ := got.Template(legs.Exercises[0].TemplateID)
	if hack.Name != "Hack Squats" || hack.Category != models.CategoryMachine || hack.Description != "Machine" {
		t.Errorf("hack squat template = %+v", hack)
	}
	lunge, _ := got.Template(legs.Exercises[3].TemplateID)
	if lunge.Category != models.CategoryFreeWeights {
		t.Errorf("lunge category = %s", lunge.Category)
	}

	push, _ := got.Workout("alpha-20260217T1704")
	if push.Exercises[0].TemplateID != "t8" {
		t.Errorf("bench press matched %s, want existing t8", push.Exercises[0].TemplateID)
	}

	again, res := Merge(got, sessions, sequence())
	if res.Workouts != 0 || res.Skipped != 2 || len(again.Workouts) != 2 {
		t.Errorf("re-import result = %+v with %d workouts", res, len(again.Workouts))
	}
}

// TestExerciseSeconds verifies the remainder goes to the last exercise.
func TestExerciseSeconds(t *testing.T) {
	got := exerciseSeconds(100, 3)
	if got[0] != 33 || got[1] != 33 || got[2] != 34 {
		t.Errorf("split = %v", got)
	}
	if len(exerciseSeconds(100, 0)) != 0 {
		t.Error("zero exercises should give an empty split")
	}
}
