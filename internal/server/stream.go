package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/timer"
)

// timerTick is one live timer reading.
type timerTick struct {
	Kind       string             `json:"kind"`
	WorkoutID  string             `json:"workoutId,omitempty"`
	ExerciseID string             `json:"exerciseId,omitempty"`
	RunID      string             `json:"runId,omitempty"`
	Status     models.TimerStatus `json:"timerStatus"`
	Elapsed    int                `json:"elapsed"`
	Display    string             `json:"display"`
}

type timerFrame struct {
	At     time.Time   `json:"at"`
	Timers []timerTick `json:"timers"`
}

// liveTimers projects every running or paused timer of unfinished sessions.
// It only reads data.
func liveTimers(data models.AppData, now time.Time) timerFrame {
	frame := timerFrame{At: now, Timers: []timerTick{}}
	live := func(t models.Timer) bool {
		return t.Status == models.TimerRunning || t.Status == models.TimerPaused
	}
	for _, wo := range data.Workouts {
		if wo.Completed {
			continue
		}
		for _, e := range wo.Exercises {
			if !live(e.Timer) {
				continue
			}
			elapsed := timer.Elapsed(e.Timer, now)
			frame.Timers = append(frame.Timers, timerTick{
				Kind: "exercise", WorkoutID: wo.ID, ExerciseID: e.ID,
				Status: e.Status, Elapsed: elapsed, Display: stats.FormatClock(elapsed),
			})
		}
	}
	for _, run := range data.RunSessions {
		if run.Completed || !live(run.Timer) {
			continue
		}
		elapsed := timer.Elapsed(run.Timer, now)
		frame.Timers = append(frame.Timers, timerTick{
			Kind: "run", RunID: run.ID,
			Status: run.Status, Elapsed: elapsed, Display: stats.FormatHMS(elapsed),
		})
	}
	return frame
}

// handleTimerStream sends the live timers as server-sent events once per
// tick until the client goes away.
func (s *Server) handleTimerStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		frame := liveTimers(s.store.Snapshot(), s.now())
		payload, err := json.Marshal(frame)
		if err != nil {
			s.log.Error("encoding timer frame", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: timers\ndata: %s\n\n", payload); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			s.log.Warn("timer stream flush failed", "error", err)
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
