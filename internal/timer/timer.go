// Package timer implements the segment accumulator behind exercise and run
// timers. Stored state only changes at transitions (start, pause, complete);
// the live elapsed time is computed on demand by Elapsed.
package timer

import (
	"slices"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// Start opens a new running segment. It is valid from idle and paused;
// accumulated time and closed segments are left untouched. A running or
// completed timer is returned unchanged.
func Start(t models.Timer, now time.Time) models.Timer {
	if t.Status == models.TimerRunning || t.Status == models.TimerCompleted {
		return t
	}
	started := now
	t.Status = models.TimerRunning
	t.StartedAt = &started
	return t
}

// Pause closes the open segment, folding its whole seconds into TotalTime.
// Without an open segment it returns t unchanged, so pausing twice never
// double-counts.
func Pause(t models.Timer, now time.Time) models.Timer {
	if t.StartedAt == nil {
		return t
	}
	t = closeSegment(t, now)
	t.Status = models.TimerPaused
	return t
}

// Complete finishes the timer from any state. A running timer first has its
// open segment closed exactly as Pause would.
func Complete(t models.Timer, now time.Time) models.Timer {
	if t.Status == models.TimerRunning && t.StartedAt != nil {
		t = closeSegment(t, now)
	}
	t.StartedAt = nil
	t.Status = models.TimerCompleted
	return t
}

// Elapsed is the display time: closed seconds plus, while running, the live
// seconds of the open segment.
func Elapsed(t models.Timer, now time.Time) int {
	switch t.Status {
	case models.TimerRunning:
		if t.StartedAt == nil {
			return t.TotalTime
		}
		return t.TotalTime + seconds(*t.StartedAt, now)
	case models.TimerIdle, models.TimerPaused, models.TimerCompleted:
		return t.TotalTime
	}
	return t.TotalTime
}

// Default returns the timer fields inferred for a record written before
// timers existed.
func Default(completed bool) models.Timer {
	status := models.TimerIdle
	if completed {
		status = models.TimerCompleted
	}
	return models.Timer{Status: status, Segments: []models.Segment{}}
}

func closeSegment(t models.Timer, now time.Time) models.Timer {
	start := *t.StartedAt
	t.TotalTime += seconds(start, now)
	t.Segments = append(slices.Clip(t.Segments), models.Segment{Start: start, End: now})
	t.StartedAt = nil
	return t
}

// seconds is floor((now-start)/1s), never negative.
func seconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
