// Package models holds the records that make up the persisted AppData
// document. All records are plain values; mutation happens by building a new
// AppData in package tracker.
package models

import "time"

// ExerciseTemplate is a catalog entry.
type ExerciseTemplate struct {
	ID            string    `json:"id"`
	MachineNumber string    `json:"machineNumber"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TrainingDay is a named program used to pre-populate a workout.
// WeekDays holds ISO weekdays (Mon=1 .. Sun=7).
type TrainingDay struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	WeekDays    []int    `json:"weekDays"`
	ExerciseIDs []string `json:"exerciseIds"`
}

// HasWeekDay reports whether the program is scheduled on the given ISO weekday.
func (d TrainingDay) HasWeekDay(day int) bool {
	for _, wd := range d.WeekDays {
		if wd == day {
			return true
		}
	}
	return false
}

// Segment is one closed interval during which a timer was running.
type Segment struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the wall-clock length of the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Timer is the accumulated-time state shared by workout exercises and runs.
// TotalTime counts seconds of closed segments only; an open segment starts at
// StartedAt and is not included until it is closed.
type Timer struct {
	Status    TimerStatus `json:"timerStatus"`
	TotalTime int         `json:"totalTime"`
	StartedAt *time.Time  `json:"startedAt,omitempty"`
	Segments  []Segment   `json:"segments"`
}

// WorkoutSet is one set of an exercise. Weight is in kg.
type WorkoutSet struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// WorkoutExercise is an exercise performed within a workout.
type WorkoutExercise struct {
	ID         string       `json:"id"`
	TemplateID string       `json:"templateId"`
	Sets       []WorkoutSet `json:"sets"`
	Completed  bool         `json:"completed"`
	Order      int          `json:"order"`
	Timer
}

// Workout is a gym session. At most one workout is incomplete at a time; the
// data layer does not enforce it.
type Workout struct {
	ID          string            `json:"id"`
	Date        Date              `json:"date"`
	DayID       string            `json:"dayId,omitempty"`
	Exercises   []WorkoutExercise `json:"exercises"`
	Completed   bool              `json:"completed"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Intensity   Intensity         `json:"intensity,omitempty"`
	Feeling     Feeling           `json:"feeling,omitempty"`
	Calories    *int              `json:"calories,omitempty"`
}

// FinishedAt is the completion time, falling back to the start time for
// records that never got one.
func (w Workout) FinishedAt() time.Time {
	if w.CompletedAt != nil {
		return *w.CompletedAt
	}
	return w.StartedAt
}

// Exercise returns the exercise performing templateID, if any.
func (w Workout) Exercise(templateID string) (WorkoutExercise, bool) {
	for _, e := range w.Exercises {
		if e.TemplateID == templateID {
			return e, true
		}
	}
	return WorkoutExercise{}, false
}

// RunSession is a timed walk or run. Distance is in km, Pace in seconds per
// km and Speed in km/h.
type RunSession struct {
	ID          string     `json:"id"`
	Date        Date       `json:"date"`
	Distance    float64    `json:"distance"`
	Steps       *int       `json:"steps,omitempty"`
	RunType     RunType    `json:"runType"`
	Surface     string     `json:"surface"`
	Weather     Weather    `json:"weather,omitempty"`
	Effort      int        `json:"effort"`
	Feeling     Feeling    `json:"feeling,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Pace        float64    `json:"pace,omitempty"`
	Speed       float64    `json:"speed,omitempty"`
	Calories    *int       `json:"calories,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Timer
}

// BodyWeightEntry is the body weight for one day, in kg.
type BodyWeightEntry struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile feeds BMR and calorie estimation. Height is in cm; BirthDate
// is empty when unknown.
type UserProfile struct {
	Name      string  `json:"name"`
	Gender    Gender  `json:"gender"`
	BirthDate string  `json:"birthDate"`
	Height    float64 `json:"height"`
}

// AppData is the whole persisted document.
type AppData struct {
	Templates    []ExerciseTemplate `json:"templates"`
	TrainingDays []TrainingDay      `json:"trainingDays"`
	Workouts     []Workout          `json:"workouts"`
	BodyWeight   []BodyWeightEntry  `json:"bodyWeight"`
	RunSessions  []RunSession       `json:"runSessions"`
	UserProfile  UserProfile        `json:"userProfile"`
}

// Template looks up a catalog entry by id.
func (d AppData) Template(id string) (ExerciseTemplate, bool) {
	for _, t := range d.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return ExerciseTemplate{}, false
}

// TrainingDay looks up a program by id.
func (d AppData) TrainingDay(id string) (TrainingDay, bool) {
	for _, td := range d.TrainingDays {
		if td.ID == id {
			return td, true
		}
	}
	return TrainingDay{}, false
}

// Workout looks up a workout by id.
func (d AppData) Workout(id string) (Workout, bool) {
	for _, w := range d.Workouts {
		if w.ID == id {
			return w, true
		}
	}
	return Workout{}, false
}

// Run looks up a run session by id.
func (d AppData) Run(id string) (RunSession, bool) {
	for _, r := range d.RunSessions {
		if r.ID == id {
			return r, true
		}
	}
	return RunSession{}, false
}

// ActiveWorkout returns the incomplete workout, if any.
func (d AppData) ActiveWorkout() (Workout, bool) {
	for _, w := range d.Workouts {
		if !w.Completed {
			return w, true
		}
	}
	return Workout{}, false
}

// ActiveRun returns the incomplete run session, if any.
func (d AppData) ActiveRun() (RunSession, bool) {
	for _, r := range d.RunSessions {
		if !r.Completed {
			return r, true
		}
	}
	return RunSession{}, false
}
