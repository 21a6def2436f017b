package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/tracker"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	data := s.store.Snapshot()
	category := models.Category(r.URL.Query().Get("category"))
	if category == "" {
		writeJSON(w, http.StatusOK, data.Templates)
		return
	}
	if !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category " + string(category)})
		return
	}
	out := []models.ExerciseTemplate{}
	for _, t := range data.Templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in tracker.TemplateInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	var created models.ExerciseTemplate
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		var err error
		d, created, err = s.store.Tracker().CreateTemplate(d, in)
		return d, err
	}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch tracker.TemplatePatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().UpdateTemplate(d, id, patch)
	})
	if !ok {
		return
	}
	tmpl, _ := data.Template(id)
	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteTemplate(d, id)
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTemplateHistory lists completed sessions of one exercise, newest
// first, with only that exercise's sets.
func (s *Server) handleTemplateHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := s.store.Snapshot()
	if _, ok := data.Template(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}

	type entry struct {
		WorkoutID string              `json:"workoutId"`
		Date      models.Date         `json:"date"`
		Sets      []models.WorkoutSet `json:"sets"`
		TotalTime int                 `json:"totalTime"`
	}
	out := []entry{}
	for _, wo := range tracker.ExerciseHistory(data, id) {
		e, _ := wo.Exercise(id)
		out = append(out, entry{WorkoutID: wo.ID, Date: wo.Date, Sets: e.Sets, TotalTime: e.TotalTime})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().TrainingDays)
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	var in tracker.TrainingDayInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	var created models.TrainingDay
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		var err error
		d, created, err = s.store.Tracker().CreateTrainingDay(d, in)
		return d, err
	}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch tracker.TrainingDayPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	data, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().UpdateTrainingDay(d, id, patch)
	})
	if !ok {
		return
	}
	day, _ := data.TrainingDay(id)
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.update(w, func(d models.AppData) (models.AppData, error) {
		return s.store.Tracker().DeleteTrainingDay(d, id)
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
