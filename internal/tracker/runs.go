package tracker

import (
	"fmt"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/timer"
)

const (
	defaultEffort = 5
	minEffort     = 1
	maxEffort     = 10
)

// RunPatch holds run fields to change; nil fields are kept.
type RunPatch struct {
	Distance *float64        `json:"distance"`
	Steps    *int            `json:"steps"`
	RunType  *models.RunType `json:"runType"`
	Weather  *models.Weather `json:"weather"`
	Effort   *int            `json:"effort"`
	Feeling  *models.Feeling `json:"feeling"`
	Notes    *string         `json:"notes"`
}

func runID(r models.RunSession) string { return r.ID }

// StartRun creates a run session whose timer is already running.
func (t *Tracker) StartRun(data models.AppData) (models.AppData, models.RunSession) {
	now := t.clock.Now()
	r := models.RunSession{
		ID:      t.newID(),
		Date:    models.DateOf(now),
		RunType: models.RunRunning,
		Effort:  defaultEffort,
		Timer:   timer.Start(timer.Default(false), now),
	}
	data.RunSessions = appended(data.RunSessions, r)
	return data, r
}

func (t *Tracker) updateRun(data models.AppData, id string, fn func(models.RunSession) (models.RunSession, error)) (models.AppData, error) {
	runs, err := replace(data.RunSessions, runID, id, fn)
	if err != nil {
		return data, fmt.Errorf("run %s: %w", id, err)
	}
	data.RunSessions = runs
	return data, nil
}

// PauseRun closes the running segment; a no-op without one.
func (t *Tracker) PauseRun(data models.AppData, id string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateRun(data, id, func(r models.RunSession) (models.RunSession, error) {
		r.Timer = timer.Pause(r.Timer, now)
		return r, nil
	})
}

// ResumeRun opens a new running segment. Running and completed runs are
// left unchanged.
func (t *Tracker) ResumeRun(data models.AppData, id string) (models.AppData, error) {
	now := t.clock.Now()
	return t.updateRun(data, id, func(r models.RunSession) (models.RunSession, error) {
		r.Timer = timer.Start(r.Timer, now)
		return r, nil
	})
}

// UpdateRun edits run details. Distance is sanitized and effort clamped to
// 1..10.
func (t *Tracker) UpdateRun(data models.AppData, id string, p RunPatch) (models.AppData, error) {
	if p.RunType != nil && !p.RunType.Valid() {
		return data, fmt.Errorf("%w: run type %q", ErrInvalid, *p.RunType)
	}
	if p.Weather != nil && *p.Weather != "" && !p.Weather.Valid() {
		return data, fmt.Errorf("%w: weather %q", ErrInvalid, *p.Weather)
	}
	if p.Feeling != nil && *p.Feeling != "" && !p.Feeling.Valid() {
		return data, fmt.Errorf("%w: feeling %q", ErrInvalid, *p.Feeling)
	}
	return t.updateRun(data, id, func(r models.RunSession) (models.RunSession, error) {
		if p.Distance != nil {
			r.Distance = max(stats.Sanitize(*p.Distance), 0)
		}
		if p.Steps != nil {
			steps := max(*p.Steps, 0)
			r.Steps = &steps
		}
		if p.RunType != nil {
			r.RunType = *p.RunType
		}
		if p.Weather != nil {
			r.Weather = *p.Weather
		}
		if p.Effort != nil {
			r.Effort = min(max(*p.Effort, minEffort), maxEffort)
		}
		if p.Feeling != nil {
			r.Feeling = *p.Feeling
		}
		if p.Notes != nil {
			r.Notes = *p.Notes
		}
		return r, nil
	})
}

// CompleteRun closes any open segment, records the distance and feeling and
// derives pace, speed and calories. Calories are 0 when no body weight is
// logged.
func (t *Tracker) CompleteRun(data models.AppData, id string, distance float64, feeling models.Feeling) (models.AppData, error) {
	if feeling != "" && !feeling.Valid() {
		return data, fmt.Errorf("%w: feeling %q", ErrInvalid, feeling)
	}
	now := t.clock.Now()
	weight := stats.CurrentWeight(data.BodyWeight)
	distance = max(stats.Sanitize(distance), 0)
	return t.updateRun(data, id, func(r models.RunSession) (models.RunSession, error) {
		r.Timer = timer.Complete(r.Timer, now)
		pace := stats.RunPace(r.TotalTime, distance)
		calories := 0
		if weight > 0 {
			calories = stats.RunCalories(r.RunType, weight, r.TotalTime)
		}
		r.Distance = distance
		r.Pace = pace.Pace
		r.Speed = pace.Speed
		r.Calories = &calories
		if feeling != "" {
			r.Feeling = feeling
		}
		r.Completed = true
		r.CompletedAt = &now
		return r, nil
	})
}

// DeleteRun removes a run session, also used to cancel an active one.
func (t *Tracker) DeleteRun(data models.AppData, id string) (models.AppData, error) {
	runs, err := without(data.RunSessions, runID, id)
	if err != nil {
		return data, fmt.Errorf("run %s: %w", id, err)
	}
	data.RunSessions = runs
	return data, nil
}
