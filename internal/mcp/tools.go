package mcp

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/timer"
	"github.com/meltforce/fittrack/internal/tracker"
)

// defaultTimeRange returns start/end defaulting to the 7 days before now.
func defaultTimeRange(startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = now
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// inDays reports whether the calendar day d falls within [start, end].
func inDays(d models.Date, start, end time.Time) bool {
	return !d.Before(models.DateOf(start)) && !models.DateOf(end).Before(d)
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List workouts with their exercises, sets, exercise time, intensity and calorie estimate. Newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("status", mcp.Description("Filter by status. Defaults to all."), mcp.Enum("all", "active", "completed")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Session-by-session history of one exercise across completed workouts, newest first: sets (reps, weight), exercise time and best weight per session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise template id, machine number or name (partial match, e.g. 'bench')")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Heaviest completed set per exercise, plus totals of completed workouts, sets and volume (reps × weight)."),
)

var toolGetRuns = mcp.NewTool("get_runs",
	mcp.WithDescription("Runs and walks in a time range with distance, time, pace (s/km), speed (km/h) and calories, plus an all-time run summary."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetBodyWeight = mcp.NewTool("get_body_weight",
	mcp.WithDescription("Body-weight entries in a time range and overall stats: current, start, change, min, max, weekly and monthly change, trend."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetCalories = mcp.NewTool("get_calories",
	mcp.WithDescription("Estimated calories burned today and over the last 7 days, split by workouts and runs, plus the basal metabolic rate when the profile is complete."),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("The workout or run currently in progress, with live elapsed timer values."),
)

var toolListTemplates = mcp.NewTool("list_exercises",
	mcp.WithDescription("The exercise catalog: machine number, name, description and category of every exercise template."),
	mcp.WithString("category", mcp.Description("Filter by category."), mcp.Enum("cardio", "machine", "free_weights")),
)

// --- Views ---

type setView struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

type exerciseSummary struct {
	Exercise      string             `json:"exercise"`
	MachineNumber string             `json:"machine_number,omitempty"`
	Status        models.TimerStatus `json:"timer_status"`
	Seconds       int                `json:"seconds"`
	Sets          []setView          `json:"sets"`
}

type workoutSummary struct {
	ID        string            `json:"id"`
	Date      models.Date       `json:"date"`
	Program   string            `json:"program,omitempty"`
	Completed bool              `json:"completed"`
	Seconds   int               `json:"seconds"`
	Intensity models.Intensity  `json:"intensity,omitempty"`
	Feeling   models.Feeling    `json:"feeling,omitempty"`
	Calories  *int              `json:"calories,omitempty"`
	Exercises []exerciseSummary `json:"exercises"`
}

func summarizeWorkout(data models.AppData, w models.Workout, now time.Time) workoutSummary {
	out := workoutSummary{
		ID:        w.ID,
		Date:      w.Date,
		Completed: w.Completed,
		Intensity: w.Intensity,
		Feeling:   w.Feeling,
		Calories:  w.Calories,
		Exercises: make([]exerciseSummary, 0, len(w.Exercises)),
	}
	if day, ok := data.TrainingDay(w.DayID); ok {
		out.Program = day.Name
	}
	for _, e := range w.Exercises {
		es := exerciseSummary{
			Exercise: e.TemplateID,
			Status:   e.Status,
			Seconds:  timer.Elapsed(e.Timer, now),
			Sets:     make([]setView, len(e.Sets)),
		}
		if t, ok := data.Template(e.TemplateID); ok {
			es.Exercise = t.Name
			es.MachineNumber = t.MachineNumber
		}
		for i, s := range e.Sets {
			es.Sets[i] = setView{Reps: s.Reps, Weight: s.Weight, Completed: s.Completed}
		}
		out.Seconds += es.Seconds
		out.Exercises = append(out.Exercises, es)
	}
	return out
}

type runSummary struct {
	ID       string         `json:"id"`
	Date     models.Date    `json:"date"`
	Type     models.RunType `json:"type"`
	Distance float64        `json:"distance_km"`
	Seconds  int            `json:"seconds"`
	Pace     string         `json:"pace"`
	Speed    float64        `json:"speed_kmh"`
	Effort   int            `json:"effort"`
	Feeling  models.Feeling `json:"feeling,omitempty"`
	Weather  models.Weather `json:"weather,omitempty"`
	Calories *int           `json:"calories,omitempty"`
	Notes    string         `json:"notes,omitempty"`
}

func summarizeRun(r models.RunSession, now time.Time) runSummary {
	return runSummary{
		ID:       r.ID,
		Date:     r.Date,
		Type:     r.RunType,
		Distance: r.Distance,
		Seconds:  timer.Elapsed(r.Timer, now),
		Pace:     stats.FormatPace(r.Pace),
		Speed:    r.Speed,
		Effort:   r.Effort,
		Feeling:  r.Feeling,
		Weather:  r.Weather,
		Calories: r.Calories,
		Notes:    r.Notes,
	}
}

// matchTemplates resolves a user-supplied exercise reference.
func matchTemplates(data models.AppData, query string) []models.ExerciseTemplate {
	if t, ok := data.Template(query); ok {
		return []models.ExerciseTemplate{t}
	}
	q := strings.ToLower(query)
	var out []models.ExerciseTemplate
	for _, t := range data.Templates {
		if strings.EqualFold(t.MachineNumber, query) || strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// --- Tool handlers ---

func (h *handlers) snapshot(ctx context.Context, tool string) (models.AppData, *mcp.CallToolResult) {
	data, err := h.ds.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp "+tool, "user", UserFromContext(ctx), "error", err)
		return data, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return data, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), now)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	status := req.GetString("status", "all")
	switch status {
	case "all", "active", "completed":
	default:
		return mcp.NewToolResultError("status must be all, active or completed"), nil
	}

	data, fail := h.snapshot(ctx, "get_workouts")
	if fail != nil {
		return fail, nil
	}

	out := []workoutSummary{}
	for _, w := range data.Workouts {
		if !inDays(w.Date, start, end) {
			continue
		}
		if (status == "active" && w.Completed) || (status == "completed" && !w.Completed) {
			continue
		}
		out = append(out, summarizeWorkout(data, w, now))
	}
	slices.SortStableFunc(out, func(a, b workoutSummary) int {
		return b.Date.Compare(a.Date.Time)
	})
	return jsonResult(out)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	data, fail := h.snapshot(ctx, "get_exercise_history")
	if fail != nil {
		return fail, nil
	}

	matches := matchTemplates(data, query)
	if len(matches) == 0 {
		return mcp.NewToolResultError("no exercise matches " + query), nil
	}

	type session struct {
		WorkoutID  string      `json:"workout_id"`
		Date       models.Date `json:"date"`
		Seconds    int         `json:"seconds"`
		BestWeight float64     `json:"best_weight"`
		Sets       []setView   `json:"sets"`
	}
	type history struct {
		Exercise      string    `json:"exercise"`
		MachineNumber string    `json:"machine_number,omitempty"`
		Sessions      []session `json:"sessions"`
	}

	out := make([]history, 0, len(matches))
	for _, t := range matches {
		hist := history{Exercise: t.Name, MachineNumber: t.MachineNumber, Sessions: []session{}}
		for _, w := range tracker.ExerciseHistory(data, t.ID) {
			e, _ := w.Exercise(t.ID)
			s := session{WorkoutID: w.ID, Date: w.Date, Seconds: e.TotalTime, Sets: make([]setView, len(e.Sets))}
			for i, set := range e.Sets {
				s.Sets[i] = setView{Reps: set.Reps, Weight: set.Weight, Completed: set.Completed}
				if set.Completed {
					s.BestWeight = max(s.BestWeight, set.Weight)
				}
			}
			hist.Sessions = append(hist.Sessions, s)
		}
		out = append(out, hist)
	}
	return jsonResult(out)
}

func (h *handlers) getPersonalRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, fail := h.snapshot(ctx, "get_personal_records")
	if fail != nil {
		return fail, nil
	}

	type record struct {
		Exercise      string          `json:"exercise"`
		MachineNumber string          `json:"machine_number,omitempty"`
		Category      models.Category `json:"category"`
		MaxWeight     float64         `json:"max_weight"`
	}
	records := []record{}
	for _, r := range stats.PersonalRecords(data) {
		records = append(records, record{
			Exercise:      r.Template.Name,
			MachineNumber: r.Template.MachineNumber,
			Category:      r.Template.Category,
			MaxWeight:     r.MaxWeight,
		})
	}
	return jsonResult(map[string]any{
		"records": records,
		"totals":  stats.Totals(data),
	})
}

func (h *handlers) getRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	startStr := req.GetString("start", "")
	if startStr == "" {
		startStr = now.AddDate(0, 0, -30).Format(time.RFC3339)
	}
	start, end, err := defaultTimeRange(startStr, req.GetString("end", ""), now)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	data, fail := h.snapshot(ctx, "get_runs")
	if fail != nil {
		return fail, nil
	}

	runs := []runSummary{}
	for _, r := range data.RunSessions {
		if inDays(r.Date, start, end) {
			runs = append(runs, summarizeRun(r, now))
		}
	}
	slices.SortStableFunc(runs, func(a, b runSummary) int {
		return b.Date.Compare(a.Date.Time)
	})
	return jsonResult(map[string]any{
		"runs":    runs,
		"summary": stats.Runs(data, now),
	})
}

func (h *handlers) getBodyWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	startStr := req.GetString("start", "")
	if startStr == "" {
		startStr = now.AddDate(0, 0, -30).Format(time.RFC3339)
	}
	start, end, err := defaultTimeRange(startStr, req.GetString("end", ""), now)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	data, fail := h.snapshot(ctx, "get_body_weight")
	if fail != nil {
		return fail, nil
	}

	entries := []models.BodyWeightEntry{}
	for _, e := range stats.SortedBodyWeight(data.BodyWeight) {
		if inDays(e.Date, start, end) {
			entries = append(entries, e)
		}
	}
	return jsonResult(map[string]any{
		"entries": entries,
		"stats":   stats.BodyWeight(data.BodyWeight, now),
	})
}

func (h *handlers) getCalories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	data, fail := h.snapshot(ctx, "get_calories")
	if fail != nil {
		return fail, nil
	}
	weight := stats.CurrentWeight(data.BodyWeight)
	return jsonResult(map[string]any{
		"burned":         stats.BurnedCalories(data, now),
		"bmr":            stats.BMR(data.UserProfile, weight, now),
		"current_weight": weight,
	})
}

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	data, fail := h.snapshot(ctx, "get_active_session")
	if fail != nil {
		return fail, nil
	}
	return jsonResult(activeSession(data, now))
}

func activeSession(data models.AppData, now time.Time) map[string]any {
	out := map[string]any{"workout": nil, "run": nil}
	if w, ok := data.ActiveWorkout(); ok {
		out["workout"] = summarizeWorkout(data, w, now)
	}
	if r, ok := data.ActiveRun(); ok {
		out["run"] = summarizeRun(r, now)
	}
	return out
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := models.Category(req.GetString("category", ""))
	if category != "" && !category.Valid() {
		return mcp.NewToolResultError("unknown category " + string(category)), nil
	}

	data, fail := h.snapshot(ctx, "list_exercises")
	if fail != nil {
		return fail, nil
	}

	out := []models.ExerciseTemplate{}
	for _, t := range data.Templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return jsonResult(out)
}
