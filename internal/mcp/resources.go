package mcp

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := h.ds.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	weekday := stats.TodayWeekday(now)
	programs := []string{}
	for _, d := range data.TrainingDays {
		if slices.Contains(d.WeekDays, weekday) {
			programs = append(programs, d.Name)
		}
	}

	summary := map[string]any{
		"date":           models.DateOf(now),
		"weekday":        weekday,
		"programs":       programs,
		"active":         activeSession(data, now),
		"calories":       stats.BurnedCalories(data, now).Today,
		"current_weight": stats.CurrentWeight(data.BodyWeight),
	}
	return jsonContents(req.Params.URI, summary)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := h.ds.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	end := h.clock.Now()
	start := end.AddDate(0, 0, -14)
	workouts := []workoutSummary{}
	for _, w := range data.Workouts {
		if inDays(w.Date, start, end) {
			workouts = append(workouts, summarizeWorkout(data, w, end))
		}
	}
	slices.SortStableFunc(workouts, func(a, b workoutSummary) int {
		return b.Date.Compare(a.Date.Time)
	})
	return jsonContents(req.Params.URI, workouts)
}

func (h *handlers) trainingPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := h.ds.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	type planDay struct {
		Name      string   `json:"name"`
		WeekDays  []int    `json:"weekdays"`
		Exercises []string `json:"exercises"`
	}
	plan := make([]planDay, 0, len(data.TrainingDays))
	for _, d := range data.TrainingDays {
		pd := planDay{Name: d.Name, WeekDays: d.WeekDays, Exercises: []string{}}
		for _, id := range d.ExerciseIDs {
			if t, ok := data.Template(id); ok {
				pd.Exercises = append(pd.Exercises, t.Name)
			}
		}
		plan = append(plan, pd)
	}
	return jsonContents(req.Params.URI, plan)
}
