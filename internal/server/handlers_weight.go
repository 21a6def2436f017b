package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

// handleListWeight lists body-weight entries oldest first.
func (s *Server) handleListWeight(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	out := []models.BodyWeightEntry{}
	for _, e := range stats.SortedBodyWeight(s.store.Snapshot().BodyWeight) {
		if inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type addWeightRequest struct {
	Weight float64 `json:"weight"`
}

// handleAddWeight records today's weight, replacing an entry from earlier
// today.
func (s *Server) handleAddWeight(w http.ResponseWriter, r *http.Request) {
	var req addWeightRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	var entry models.BodyWeightEntry
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		var err error
		d, entry, err = s.store.Tracker().AddBodyWeight(d, req.Weight)
		return d, err
	}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteBodyWeight(d, id)
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWeightStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stats.BodyWeight(s.store.Snapshot().BodyWeight, s.now()))
}
