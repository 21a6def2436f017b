package tracker

import (
	"fmt"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

// ProfilePatch holds profile fields to change; nil fields are kept.
type ProfilePatch struct {
	Name      *string        `json:"name"`
	Gender    *models.Gender `json:"gender"`
	BirthDate *string        `json:"birthDate"`
	Height    *float64       `json:"height"`
}

func bodyWeightID(e models.BodyWeightEntry) string { return e.ID }

// AddBodyWeight records today's weight rounded to 0.1 kg. A second entry on
// the same day overwrites the first.
func (t *Tracker) AddBodyWeight(data models.AppData, weight float64) (models.AppData, models.BodyWeightEntry, error) {
	weight = stats.RoundBodyWeight(weight)
	if weight <= 0 {
		return data, models.BodyWeightEntry{}, fmt.Errorf("%w: weight must be positive", ErrInvalid)
	}
	now := t.clock.Now()
	today := models.DateOf(now)

	for _, e := range data.BodyWeight {
		if !e.Date.Equal(today) {
			continue
		}
		var updated models.BodyWeightEntry
		entries, err := replace(data.BodyWeight, bodyWeightID, e.ID, func(e models.BodyWeightEntry) (models.BodyWeightEntry, error) {
			e.Weight = weight
			updated = e
			return e, nil
		})
		if err != nil {
			return data, models.BodyWeightEntry{}, err
		}
		data.BodyWeight = entries
		return data, updated, nil
	}

	entry := models.BodyWeightEntry{ID: t.newID(), Date: today, Weight: weight, CreatedAt: now}
	data.BodyWeight = appended(data.BodyWeight, entry)
	return data, entry, nil
}

// DeleteBodyWeight removes a body-weight entry.
func (t *Tracker) DeleteBodyWeight(data models.AppData, id string) (models.AppData, error) {
	entries, err := without(data.BodyWeight, bodyWeightID, id)
	if err != nil {
		return data, fmt.Errorf("body weight %s: %w", id, err)
	}
	data.BodyWeight = entries
	return data, nil
}

// UpdateProfile applies a patch to the user profile.
func (t *Tracker) UpdateProfile(data models.AppData, p ProfilePatch) (models.AppData, error) {
	prof := data.UserProfile
	if p.Name != nil {
		prof.Name = *p.Name
	}
	if p.Gender != nil {
		if !p.Gender.Valid() {
			return data, fmt.Errorf("%w: gender %q", ErrInvalid, *p.Gender)
		}
		prof.Gender = *p.Gender
	}
	if p.BirthDate != nil {
		if *p.BirthDate != "" {
			if _, err := models.ParseDate(*p.BirthDate); err != nil {
				return data, fmt.Errorf("%w: %v", ErrInvalid, err)
			}
		}
		prof.BirthDate = *p.BirthDate
	}
	if p.Height != nil {
		prof.Height = max(stats.Sanitize(*p.Height), 0)
	}
	data.UserProfile = prof
	return data, nil
}
