package tracker

import (
	"fmt"
	"slices"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

// TemplateInput describes a new catalog entry.
type TemplateInput struct {
	MachineNumber string          `json:"machineNumber"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      models.Category `json:"category"`
}

// TemplatePatch holds the fields to change; nil fields are kept.
type TemplatePatch struct {
	MachineNumber *string          `json:"machineNumber"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *models.Category `json:"category"`
}

func templateID(t models.ExerciseTemplate) string { return t.ID }
func dayID(d models.TrainingDay) string           { return d.ID }

// CreateTemplate adds a catalog entry.
func (t *Tracker) CreateTemplate(data models.AppData, in TemplateInput) (models.AppData, models.ExerciseTemplate, error) {
	if in.Name == "" {
		return data, models.ExerciseTemplate{}, fmt.Errorf("%w: template name is required", ErrInvalid)
	}
	if !in.Category.Valid() {
		return data, models.ExerciseTemplate{}, fmt.Errorf("%w: category %q", ErrInvalid, in.Category)
	}
	tmpl := models.ExerciseTemplate{
		ID:            t.newID(),
		MachineNumber: in.MachineNumber,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		CreatedAt:     t.clock.Now(),
	}
	data.Templates = appended(data.Templates, tmpl)
	return data, tmpl, nil
}

// UpdateTemplate applies a patch to a catalog entry.
func (t *Tracker) UpdateTemplate(data models.AppData, id string, p TemplatePatch) (models.AppData, error) {
	if p.Category != nil && !p.Category.Valid() {
		return data, fmt.Errorf("%w: category %q", ErrInvalid, *p.Category)
	}
	templates, err := replace(data.Templates, templateID, id, func(tmpl models.ExerciseTemplate) (models.ExerciseTemplate, error) {
		if p.MachineNumber != nil {
			tmpl.MachineNumber = *p.MachineNumber
		}
		if p.Name != nil {
			tmpl.Name = *p.Name
		}
		if p.Description != nil {
			tmpl.Description = *p.Description
		}
		if p.Category != nil {
			tmpl.Category = *p.Category
		}
		return tmpl, nil
	})
	if err != nil {
		return data, fmt.Errorf("template %s: %w", id, err)
	}
	data.Templates = templates
	return data, nil
}

// DeleteTemplate removes a catalog entry, then strips its id from every
// training day. The days themselves are kept. Past workouts still reference
// the id; they render without a template.
func (t *Tracker) DeleteTemplate(data models.AppData, id string) (models.AppData, error) {
	templates, err := without(data.Templates, templateID, id)
	if err != nil {
		return data, fmt.Errorf("template %s: %w", id, err)
	}

	days := make([]models.TrainingDay, len(data.TrainingDays))
	for i, d := range data.TrainingDays {
		d.ExerciseIDs = slices.DeleteFunc(slices.Clone(d.ExerciseIDs), func(eid string) bool { return eid == id })
		days[i] = d
	}

	data.Templates = templates
	data.TrainingDays = days
	return data, nil
}

// TrainingDayInput describes a new program.
type TrainingDayInput struct {
	Name        string   `json:"name"`
	WeekDays    []int    `json:"weekDays"`
	ExerciseIDs []string `json:"exerciseIds"`
}

// TrainingDayPatch holds the fields to change; nil fields are kept.
type TrainingDayPatch struct {
	Name        *string   `json:"name"`
	WeekDays    *[]int    `json:"weekDays"`
	ExerciseIDs *[]string `json:"exerciseIds"`
}

// CreateTrainingDay adds a program.
func (t *Tracker) CreateTrainingDay(data models.AppData, in TrainingDayInput) (models.AppData, models.TrainingDay, error) {
	if in.Name == "" {
		return data, models.TrainingDay{}, fmt.Errorf("%w: training day name is required", ErrInvalid)
	}
	weekDays, err := normalizeWeekDays(in.WeekDays)
	if err != nil {
		return data, models.TrainingDay{}, err
	}
	day := models.TrainingDay{
		ID:          t.newID(),
		Name:        in.Name,
		WeekDays:    weekDays,
		ExerciseIDs: nonNil(slices.Clone(in.ExerciseIDs)),
	}
	data.TrainingDays = appended(data.TrainingDays, day)
	return data, day, nil
}

// UpdateTrainingDay applies a patch to a program.
func (t *Tracker) UpdateTrainingDay(data models.AppData, id string, p TrainingDayPatch) (models.AppData, error) {
	days, err := replace(data.TrainingDays, dayID, id, func(d models.TrainingDay) (models.TrainingDay, error) {
		if p.Name != nil {
			d.Name = *p.Name
		}
		if p.WeekDays != nil {
			wd, err := normalizeWeekDays(*p.WeekDays)
			if err != nil {
				return d, err
			}
			d.WeekDays = wd
		}
		if p.ExerciseIDs != nil {
			d.ExerciseIDs = nonNil(slices.Clone(*p.ExerciseIDs))
		}
		return d, nil
	})
	if err != nil {
		return data, fmt.Errorf("training day %s: %w", id, err)
	}
	data.TrainingDays = days
	return data, nil
}

// DeleteTrainingDay removes a program. Workouts started from it keep their
// dayId.
func (t *Tracker) DeleteTrainingDay(data models.AppData, id string) (models.AppData, error) {
	days, err := without(data.TrainingDays, dayID, id)
	if err != nil {
		return data, fmt.Errorf("training day %s: %w", id, err)
	}
	data.TrainingDays = days
	return data, nil
}

// TodaysPrograms returns the training days scheduled on the clock's weekday.
func (t *Tracker) TodaysPrograms(data models.AppData) []models.TrainingDay {
	wd := stats.TodayWeekday(t.clock.Now())
	var out []models.TrainingDay
	for _, d := range data.TrainingDays {
		if d.HasWeekDay(wd) {
			out = append(out, d)
		}
	}
	return out
}

// normalizeWeekDays validates ISO weekdays and returns them sorted and
// de-duplicated.
func normalizeWeekDays(in []int) ([]int, error) {
	out := make([]int, 0, len(in))
	for _, d := range in {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: weekday %d outside 1..7", ErrInvalid, d)
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
