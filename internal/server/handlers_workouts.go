package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/tracker"
)

// handleListWorkouts lists workouts newest first. ?status=active|completed
// filters by completion, start/end by date.
func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "", "active", "completed":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be active or completed"})
		return
	}

	now := s.now()
	out := []workoutView{}
	for _, wo := range s.store.Snapshot().Workouts {
		if (status == "active" && wo.Completed) || (status == "completed" && !wo.Completed) {
			continue
		}
		if !inRange(wo.Date, start, end) {
			continue
		}
		out = append(out, newWorkoutView(wo, now))
	}
	slices.SortStableFunc(out, func(a, b workoutView) int {
		return b.FinishedAt().Compare(a.FinishedAt())
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wo, ok := s.store.Snapshot().Workout(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, newWorkoutView(wo, s.now()))
}

// respondWorkout writes the current state of workout id.
func (s *Server) respondWorkout(w http.ResponseWriter, data models.AppData, id string, status int) {
	wo, ok := data.Workout(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, status, newWorkoutView(wo, s.now()))
}

type startWorkoutRequest struct {
	DayID       string   `json:"dayId"`
	ExerciseIDs []string `json:"exerciseIds"`
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req startWorkoutRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	var created models.Workout
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		var err error
		d, created, err = s.store.Tracker().StartWorkout(d, req.DayID, req.ExerciseIDs)
		return d, err
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, created.ID, http.StatusCreated)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteWorkout(d, id)
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeWorkoutRequest struct {
	Intensity models.Intensity `json:"intensity"`
	Feeling   models.Feeling   `json:"feeling"`
}

// handleCompleteWorkout finishes a workout. With an intensity in the body
// calories are estimated as well.
func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req completeWorkoutRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	tr := s.store.Tracker()
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		if req.Intensity == "" {
			return tr.CompleteWorkout(d, id)
		}
		return tr.CompleteWorkoutWithDetails(d, id, req.Intensity, req.Feeling)
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusOK)
}

type addExerciseRequest struct {
	TemplateID string `json:"templateId"`
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req addExerciseRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		d, _, err := s.store.Tracker().AddExercise(d, id, req.TemplateID)
		return d, err
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusCreated)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, eid := chi.URLParam(r, "id"), chi.URLParam(r, "eid")
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteExercise(d, id, eid)
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusOK)
}

func (s *Server) handleExerciseTimer(w http.ResponseWriter, r *http.Request) {
	id, eid := chi.URLParam(r, "id"), chi.URLParam(r, "eid")
	tr := s.store.Tracker()

	var op func(models.AppData, string, string) (models.AppData, error)
	switch chi.URLParam(r, "action") {
	case "start":
		op = tr.StartExerciseTimer
	case "pause":
		op = tr.PauseExerciseTimer
	case "complete":
		op = tr.CompleteExerciseTimer
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown timer action"})
		return
	}

	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return op(d, id, eid)
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusOK)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	id, eid := chi.URLParam(r, "id"), chi.URLParam(r, "eid")
	var added models.WorkoutSet
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		var err error
		d, added, err = s.store.Tracker().AddSet(d, id, eid)
		return d, err
	}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// handleUpdateSet edits a set. Sets of completed workouts go through the
// edit-completed path, which never touches completion flags or timers.
func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, eid, sid := chi.URLParam(r, "id"), chi.URLParam(r, "eid"), chi.URLParam(r, "sid")
	var patch tracker.SetPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	tr := s.store.Tracker()
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		wo, found := d.Workout(id)
		if !found {
			return d, tracker.NotFound("workout", id)
		}
		if wo.Completed {
			return tr.EditCompletedSet(d, id, eid, sid, patch)
		}
		return tr.UpdateSet(d, id, eid, sid, patch)
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusOK)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, eid, sid := chi.URLParam(r, "id"), chi.URLParam(r, "eid"), chi.URLParam(r, "sid")
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteSet(d, id, eid, sid)
	})
	if !ok {
		return
	}
	s.respondWorkout(w, data, id, http.StatusOK)
}
