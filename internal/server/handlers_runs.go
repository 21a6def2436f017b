package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/tracker"
)

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	now := s.now()
	out := []runView{}
	for _, run := range s.store.Snapshot().RunSessions {
		if inRange(run.Date, start, end) {
			out = append(out, newRunView(run, now))
		}
	}
	slices.SortStableFunc(out, func(a, b runView) int {
		return b.Date.Compare(a.Date.Time)
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) respondRun(w http.ResponseWriter, data models.AppData, id string, status int) {
	run, ok := data.Run(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	writeJSON(w, status, newRunView(run, s.now()))
}

// handleStartRun creates a run whose timer is already running.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var created models.RunSession
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		d, created = s.store.Tracker().StartRun(d)
		return d, nil
	})
	if !ok {
		return
	}
	s.respondRun(w, data, created.ID, http.StatusCreated)
}

func (s *Server) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch tracker.RunPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().UpdateRun(d, id, patch)
	})
	if !ok {
		return
	}
	s.respondRun(w, data, id, http.StatusOK)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteRun(d, id)
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeRunRequest struct {
	Distance float64        `json:"distance"`
	Feeling  models.Feeling `json:"feeling"`
}

// handleRunAction handles pause, resume and complete.
func (s *Server) handleRunAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tr := s.store.Tracker()

	var fn func(models.AppData) (models.AppData, error)
	switch chi.URLParam(r, "action") {
	case "pause":
		fn = func(d models.AppData) (models.AppData, error) { return tr.PauseRun(d, id) }
	case "resume":
		fn = func(d models.AppData) (models.AppData, error) { return tr.ResumeRun(d, id) }
	case "complete":
		var req completeRunRequest
		if !decodeJSON(w, r, &req, true) {
			return
		}
		fn = func(d models.AppData) (models.AppData, error) {
			return tr.CompleteRun(d, id, req.Distance, req.Feeling)
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown run action"})
		return
	}

	data, ok := s.update(w, fn)
	if !ok {
		return
	}
	s.respondRun(w, data, id, http.StatusOK)
}
