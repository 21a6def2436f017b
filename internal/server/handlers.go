package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/fittrack/internal/app"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/tracker"
)

const maxBodyBytes = 8 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, tracker.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, app.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// decodeJSON reads the request body into v. An empty body is accepted when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
	return false
}

// update applies fn through the store, writing the error response on
// failure.
func (s *Server) update(w http.ResponseWriter, fn func(models.AppData) (models.AppData, error)) (models.AppData, bool) {
	data, err := s.store.Update(fn)
	if err != nil {
		s.writeError(w, err)
		return data, false
	}
	return data, true
}

func (s *Server) now() time.Time {
	return s.store.Tracker().Clock().Now()
}

// parseDateRange reads optional start/end query parameters (YYYY-MM-DD or
// RFC 3339). A missing bound leaves that side open.
func parseDateRange(r *http.Request) (start, end models.Date, err error) {
	if v := r.URL.Query().Get("start"); v != "" {
		if start, err = models.ParseDate(v); err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("start: %w", err)
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if end, err = models.ParseDate(v); err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("end: %w", err)
		}
	}
	return start, end, nil
}

func inRange(d, start, end models.Date) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && end.Before(d) {
		return false
	}
	return true
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// handleReplaceData swaps in a whole document, as exported from the
// browser app's local storage.
func (s *Server) handleReplaceData(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	data, err := snapshot.Decode(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	data, err = s.store.Replace(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("data replaced", "user", userInfoFromContext(r).Login,
		"workouts", len(data.Workouts), "runs", len(data.RunSessions))
	writeJSON(w, http.StatusOK, map[string]int{
		"templates":    len(data.Templates),
		"trainingDays": len(data.TrainingDays),
		"workouts":     len(data.Workouts),
		"bodyWeight":   len(data.BodyWeight),
		"runSessions":  len(data.RunSessions),
	})
}

type homeView struct {
	Weekday       int                  `json:"weekday"`
	Programs      []models.TrainingDay `json:"programs"`
	ActiveWorkout *workoutView         `json:"activeWorkout"`
	ActiveRun     *runView             `json:"activeRun"`
	Calories      stats.CalorieTotals  `json:"calories"`
	CurrentWeight float64              `json:"currentWeight"`
	Workouts      int                  `json:"workouts"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.store.Snapshot()
	now := s.now()
	view := homeView{
		Weekday:       stats.TodayWeekday(now),
		Programs:      nonNil(s.store.Tracker().TodaysPrograms(data)),
		Calories:      stats.BurnedCalories(data, now).Today,
		CurrentWeight: stats.CurrentWeight(data.BodyWeight),
		Workouts:      stats.Totals(data).Workouts,
	}
	if wo, ok := data.ActiveWorkout(); ok {
		v := newWorkoutView(wo, now)
		view.ActiveWorkout = &v
	}
	if run, ok := data.ActiveRun(); ok {
		v := newRunView(run, now)
		view.ActiveRun = &v
	}
	writeJSON(w, http.StatusOK, view)
}

type statsView struct {
	Totals     stats.WorkoutTotals    `json:"totals"`
	Records    []stats.PersonalRecord `json:"records"`
	Runs       stats.RunSummary       `json:"runs"`
	Calories   stats.CalorieSummary   `json:"calories"`
	BodyWeight stats.BodyWeightStats  `json:"bodyWeight"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data := s.store.Snapshot()
	now := s.now()
	writeJSON(w, http.StatusOK, statsView{
		Totals:     stats.Totals(data),
		Records:    nonNil(stats.PersonalRecords(data)),
		Runs:       stats.Runs(data, now),
		Calories:   stats.BurnedCalories(data, now),
		BodyWeight: stats.BodyWeight(data.BodyWeight, now),
	})
}

type profileView struct {
	models.UserProfile
	Age           int     `json:"age"`
	BMR           int     `json:"bmr"`
	CurrentWeight float64 `json:"currentWeight"`
}

func (s *Server) profileView(data models.AppData) profileView {
	now := s.now()
	weight := stats.CurrentWeight(data.BodyWeight)
	return profileView{
		UserProfile:   data.UserProfile,
		Age:           stats.Age(data.UserProfile.BirthDate, now),
		BMR:           stats.BMR(data.UserProfile, weight, now),
		CurrentWeight: weight,
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profileView(s.store.Snapshot()))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch tracker.ProfilePatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().UpdateProfile(d, patch)
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.profileView(data))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
