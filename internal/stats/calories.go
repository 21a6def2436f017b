package stats

import (
	"math"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// Activity factors: the share of session time that is metabolically active.
const (
	CardioActivityFactor     = 1.0
	ResistanceActivityFactor = 0.5
)

// fallbackRunMET applies to run types without a table entry.
const fallbackRunMET = 8.0

var runMET = map[models.RunType]float64{
	models.RunWalking: 4.0,
	models.RunRunning: 10.0,
}

var workoutMET = map[models.Intensity]float64{
	models.IntensityLight:    2.5,
	models.IntensityModerate: 3.5,
	models.IntensityHigh:     4.5,
	models.IntensityVeryHigh: 6.0,
}

// Calories estimates energy burned: round(MET × kg × hours × activityFactor).
func Calories(met, weightKg float64, seconds int, activityFactor float64) int {
	hours := float64(seconds) / 3600
	return int(math.Round(met * weightKg * hours * activityFactor))
}

// RunCalories estimates a walk or run, treating the whole duration as active.
func RunCalories(runType models.RunType, weightKg float64, seconds int) int {
	met, ok := runMET[runType]
	if !ok {
		met = fallbackRunMET
	}
	return Calories(met, weightKg, seconds, CardioActivityFactor)
}

// WorkoutCalories estimates a resistance workout, discounting rest between sets.
func WorkoutCalories(intensity models.Intensity, weightKg float64, seconds int) int {
	return Calories(workoutMET[intensity], weightKg, seconds, ResistanceActivityFactor)
}

// Age returns full years between birthDate (YYYY-MM-DD) and now, or 0 when the
// date is empty or unparsable.
func Age(birthDate string, now time.Time) int {
	if birthDate == "" {
		return 0
	}
	birth, err := models.ParseDate(birthDate)
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day. It returns 0
// when gender, height, birth date or weight is unknown.
func BMR(p models.UserProfile, weightKg float64, now time.Time) int {
	if p.Gender == models.GenderUnset || p.Height == 0 || weightKg == 0 || p.BirthDate == "" {
		return 0
	}
	age := Age(p.BirthDate, now)
	if age <= 0 {
		return 0
	}
	base := 10*weightKg + 6.25*p.Height - 5*float64(age)
	switch p.Gender {
	case models.GenderMale:
		return int(math.Round(base + 5))
	case models.GenderFemale:
		return int(math.Round(base - 161))
	}
	return 0
}

// CalorieTotals splits burned calories by activity.
type CalorieTotals struct {
	Workout int `json:"workout"`
	Run     int `json:"run"`
	Total   int `json:"total"`
}

// CalorieSummary holds today's and the last seven days' estimated calories.
type CalorieSummary struct {
	Today CalorieTotals `json:"today"`
	Week  CalorieTotals `json:"week"`
}

// BurnedCalories sums recorded calories of completed workouts and runs dated today
// and within the last seven days.
func BurnedCalories(data models.AppData, now time.Time) CalorieSummary {
	today := models.DateOf(now)
	weekAgo := today.AddDays(-7)

	var s CalorieSummary
	for _, w := range data.Workouts {
		if !w.Completed || w.Calories == nil {
			continue
		}
		if w.Date.Equal(today) {
			s.Today.Workout += *w.Calories
		}
		if !w.Date.Before(weekAgo) {
			s.Week.Workout += *w.Calories
		}
	}
	for _, r := range data.RunSessions {
		if !r.Completed || r.Calories == nil {
			continue
		}
		if r.Date.Equal(today) {
			s.Today.Run += *r.Calories
		}
		if !r.Date.Before(weekAgo) {
			s.Week.Run += *r.Calories
		}
	}
	s.Today.Total = s.Today.Workout + s.Today.Run
	s.Week.Total = s.Week.Workout + s.Week.Run
	return s
}
