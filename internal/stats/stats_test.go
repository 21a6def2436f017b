package stats

import (
	"math"
	"testing"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) models.Date {
	return models.DateOf(now).AddDays(offset)
}

func ptr[T any](v T) *T { return &v }

// TestWorkoutCalories verifies the resistance formula applies the 0.5
// activity factor: moderate, 80 kg, one hour = round(3.5*80*1*0.5) = 140.
func TestWorkoutCalories(t *testing.T) {
	if got := WorkoutCalories(models.IntensityModerate, 80, 3600); got != 140 {
		t.Errorf("WorkoutCalories = %d, want 140", got)
	}
	if got := WorkoutCalories(models.IntensityVeryHigh, 70, 1800); got != 105 {
		t.Errorf("WorkoutCalories(very_high) = %d, want 105", got)
	}
}

// TestRunCalories verifies cardio uses the full duration and falls back to
// MET 8 for unknown run types.
func TestRunCalories(t *testing.T) {
	tests := []struct {
		runType models.RunType
		want    int
	}{
		{models.RunRunning, 800},
		{models.RunWalking, 320},
		{models.RunType("hiking"), 640},
	}
	for _, tt := range tests {
		if got := RunCalories(tt.runType, 80, 3600); got != tt.want {
			t.Errorf("RunCalories(%q) = %d, want %d", tt.runType, got, tt.want)
		}
	}
}

// TestBMR verifies Mifflin-St Jeor for both genders and the 0 sentinel for
// incomplete profiles.
func TestBMR(t *testing.T) {
	male := models.UserProfile{Gender: models.GenderMale, BirthDate: "1994-01-01", Height: 180}
	female := models.UserProfile{Gender: models.GenderFemale, BirthDate: "1994-01-01", Height: 165}

	// age 30
	if got := BMR(male, 80, now); got != 1780 {
		t.Errorf("BMR(male) = %d, want 1780", got)
	}
	if got := BMR(female, 60, now); got != 1320 {
		t.Errorf("BMR(female) = %d, want 1320", got)
	}

	incomplete := []models.UserProfile{
		{BirthDate: "1994-01-01", Height: 180},
		{Gender: models.GenderMale, BirthDate: "1994-01-01"},
		{Gender: models.GenderMale, Height: 180},
	}
	for _, p := range incomplete {
		if got := BMR(p, 80, now); got != 0 {
			t.Errorf("BMR(%+v) = %d, want 0", p, got)
		}
	}
	if got := BMR(male, 0, now); got != 0 {
		t.Errorf("BMR(weight 0) = %d, want 0", got)
	}
}

// TestAge verifies birthdays later in the year are not yet counted.
func TestAge(t *testing.T) {
	tests := []struct {
		birth string
		want  int
	}{
		{"1990-06-15", 34},
		{"1990-06-16", 33},
		{"1990-12-31", 33},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := Age(tt.birth, now); got != tt.want {
			t.Errorf("Age(%q) = %d, want %d", tt.birth, got, tt.want)
		}
	}
}

// TestRunPace verifies 5 km in 30 minutes is 6:00/km and 10 km/h, and that a
// zero distance yields zeros instead of dividing by zero.
func TestRunPace(t *testing.T) {
	p := RunPace(1800, 5)
	if p.Pace != 360 || p.Speed != 10.0 {
		t.Errorf("RunPace(1800, 5) = %+v, want pace 360 speed 10", p)
	}
	if got := FormatPace(p.Pace); got != "6:00" {
		t.Errorf("FormatPace = %q, want 6:00", got)
	}
	if p := RunPace(1800, 0); p != (Pace{}) {
		t.Errorf("RunPace(1800, 0) = %+v, want zero", p)
	}
	if p := RunPace(0, 5); p != (Pace{}) {
		t.Errorf("RunPace(0, 5) = %+v, want zero", p)
	}
	if got := RunPace(1850, 5.2).Speed; got != 10.1 {
		t.Errorf("speed = %v, want 10.1", got)
	}
}

// TestRoundWeight verifies results are multiples of 0.5 and rounding is
// idempotent, including for garbage input.
func TestRoundWeight(t *testing.T) {
	inputs := []float64{0, 0.24, 0.25, 12.3, 12.74, 12.76, 99.99, -2.3, math.NaN(), math.Inf(1)}
	for _, in := range inputs {
		got := RoundWeight(in)
		if math.Mod(got*2, 1) != 0 {
			t.Errorf("RoundWeight(%v) = %v, not a multiple of 0.5", in, got)
		}
		if again := RoundWeight(got); again != got {
			t.Errorf("RoundWeight not idempotent for %v: %v -> %v", in, got, again)
		}
	}
	if got := RoundWeight(12.74); got != 12.5 {
		t.Errorf("RoundWeight(12.74) = %v, want 12.5", got)
	}
	if got := RoundBodyWeight(82.46); got != 82.5 {
		t.Errorf("RoundBodyWeight(82.46) = %v, want 82.5", got)
	}
}

func weights(ws ...float64) []models.BodyWeightEntry {
	out := make([]models.BodyWeightEntry, len(ws))
	for i, w := range ws {
		out[i] = models.BodyWeightEntry{ID: string(rune('a' + i)), Date: day(i - len(ws) + 1), Weight: w}
	}
	return out
}

// TestTrend verifies the last-five comparison with a 0.1 kg threshold.
func TestTrend(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.BodyWeightEntry
		want    models.Trend
	}{
		{"up", weights(70.0, 70.0, 70.0, 70.0, 70.3), models.TrendUp},
		{"down", weights(70.3, 70.2, 70.1, 70.0, 70.0), models.TrendDown},
		{"stable", weights(70.0, 70.0, 70.0, 70.0, 70.0), models.TrendStable},
		{"only last five count", weights(60, 70.0, 70.0, 70.0, 70.0, 70.0), models.TrendStable},
		{"single", weights(70), models.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BodyWeight(tt.entries, now).Trend; got != tt.want {
				t.Errorf("trend = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestBodyWeightStats verifies sorting by date and the window deltas.
func TestBodyWeightStats(t *testing.T) {
	entries := []models.BodyWeightEntry{
		{ID: "c", Date: day(0), Weight: 82.0},
		{ID: "a", Date: day(-40), Weight: 86.0},
		{ID: "b", Date: day(-20), Weight: 84.0},
		{ID: "d", Date: day(-3), Weight: 82.6},
	}
	s := BodyWeight(entries, now)

	if s.Current != 82.0 || s.Start != 86.0 {
		t.Errorf("current/start = %v/%v, want 82/86", s.Current, s.Start)
	}
	if s.Min != 82.0 || s.Max != 86.0 {
		t.Errorf("min/max = %v/%v, want 82/86", s.Min, s.Max)
	}
	if math.Abs(s.Change-(-4.0)) > 1e-9 {
		t.Errorf("change = %v, want -4", s.Change)
	}
	if math.Abs(s.Week-(-0.6)) > 1e-9 {
		t.Errorf("week = %v, want -0.6", s.Week)
	}
	if math.Abs(s.Month-(-2.0)) > 1e-9 {
		t.Errorf("month = %v, want -2", s.Month)
	}
	if s.Trend != models.TrendDown {
		t.Errorf("trend = %q, want down", s.Trend)
	}

	empty := BodyWeight(nil, now)
	if empty.Current != 0 || empty.Trend != models.TrendStable {
		t.Errorf("empty stats = %+v", empty)
	}
	if w := CurrentWeight(entries); w != 82.0 {
		t.Errorf("CurrentWeight = %v, want 82", w)
	}
}

// TestBodyWeightWindowNeedsTwoSamples verifies a lone in-window sample
// yields a zero delta.
func TestBodyWeightWindowNeedsTwoSamples(t *testing.T) {
	entries := []models.BodyWeightEntry{
		{ID: "a", Date: day(-20), Weight: 84.0},
		{ID: "b", Date: day(0), Weight: 82.0},
	}
	if s := BodyWeight(entries, now); s.Week != 0 {
		t.Errorf("week = %v, want 0", s.Week)
	}
}

// TestPersonalRecords verifies only completed sets of completed workouts
// count and records are ordered heaviest first.
func TestPersonalRecords(t *testing.T) {
	data := models.AppData{
		Templates: []models.ExerciseTemplate{{ID: "bench"}, {ID: "squat"}, {ID: "curl"}},
		Workouts: []models.Workout{
			{
				ID: "w1", Completed: true,
				Exercises: []models.WorkoutExercise{
					{TemplateID: "bench", Sets: []models.WorkoutSet{
						{Weight: 60, Completed: true},
						{Weight: 80, Completed: false},
					}},
					{TemplateID: "squat", Sets: []models.WorkoutSet{{Weight: 100, Completed: true}}},
				},
			},
			{
				ID: "w2", Completed: false,
				Exercises: []models.WorkoutExercise{
					{TemplateID: "curl", Sets: []models.WorkoutSet{{Weight: 20, Completed: true}}},
				},
			},
		},
	}

	got := PersonalRecords(data)
	if len(got) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(got))
	}
	if got[0].TemplateID != "squat" || got[0].MaxWeight != 100 {
		t.Errorf("records[0] = %+v, want squat/100", got[0])
	}
	if got[1].TemplateID != "bench" || got[1].MaxWeight != 60 {
		t.Errorf("records[1] = %+v, want bench/60", got[1])
	}

	totals := Totals(data)
	if totals.Workouts != 1 || totals.Sets != 2 {
		t.Errorf("totals = %+v, want 1 workout / 2 sets", totals)
	}
}

// TestRuns verifies aggregate run stats and the zero value for no runs.
func TestRuns(t *testing.T) {
	data := models.AppData{RunSessions: []models.RunSession{
		{Date: day(-2), Distance: 5, Pace: 360, Completed: true, Timer: models.Timer{TotalTime: 1800}},
		{Date: day(-20), Distance: 10, Pace: 330, Completed: true, Timer: models.Timer{TotalTime: 3300}},
		{Date: day(0), Distance: 3, Completed: false},
	}}
	s := Runs(data, now)
	if s.TotalRuns != 2 || s.TotalDistance != 15 || s.TotalTime != 5100 {
		t.Errorf("totals = %+v", s)
	}
	if s.AvgPace != 340 || s.BestPace != 330 || s.LongestRun != 10 {
		t.Errorf("paces = %+v", s)
	}
	if s.WeekDistance != 5 || s.MonthDistance != 15 {
		t.Errorf("week/month = %v/%v, want 5/15", s.WeekDistance, s.MonthDistance)
	}
	if got := Runs(models.AppData{}, now); got != (RunSummary{}) {
		t.Errorf("empty = %+v, want zero", got)
	}
}

// TestBurnedCalories verifies today and week buckets skip incomplete
// sessions and sessions without a calorie estimate.
func TestBurnedCalories(t *testing.T) {
	data := models.AppData{
		Workouts: []models.Workout{
			{Date: day(0), Completed: true, Calories: ptr(200)},
			{Date: day(-3), Completed: true, Calories: ptr(150)},
			{Date: day(-10), Completed: true, Calories: ptr(999)},
			{Date: day(0), Completed: false, Calories: ptr(50)},
		},
		RunSessions: []models.RunSession{
			{Date: day(0), Completed: true, Calories: ptr(300)},
			{Date: day(-7), Completed: true, Calories: ptr(100)},
			{Date: day(-1), Completed: true},
		},
	}
	s := BurnedCalories(data, now)
	want := CalorieSummary{
		Today: CalorieTotals{Workout: 200, Run: 300, Total: 500},
		Week:  CalorieTotals{Workout: 350, Run: 400, Total: 750},
	}
	if s != want {
		t.Errorf("BurnedCalories = %+v, want %+v", s, want)
	}
}

// TestFormatting verifies clock and pace formatting.
func TestFormatting(t *testing.T) {
	if got := FormatClock(125); got != "2:05" {
		t.Errorf("FormatClock(125) = %q", got)
	}
	if got := FormatHMS(3725); got != "1:02:05" {
		t.Errorf("FormatHMS(3725) = %q", got)
	}
	if got := FormatHMS(59); got != "0:59" {
		t.Errorf("FormatHMS(59) = %q", got)
	}
	if got := FormatPace(0); got != "--:--" {
		t.Errorf("FormatPace(0) = %q", got)
	}
	if got := FormatPace(346.2); got != "5:46" {
		t.Errorf("FormatPace(346.2) = %q", got)
	}
	if got := TodayWeekday(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)); got != 7 {
		t.Errorf("TodayWeekday(sunday) = %d, want 7", got)
	}
}
