package models

import "fmt"

// Category classifies an exercise template in the catalog.
type Category string

const (
	CategoryCardio      Category = "cardio"
	CategoryMachine     Category = "machine"
	CategoryFreeWeights Category = "free_weights"
)

// Categories lists every catalog category in display order.
var Categories = []Category{CategoryCardio, CategoryMachine, CategoryFreeWeights}

func (c Category) Valid() bool {
	switch c {
	case CategoryCardio, CategoryMachine, CategoryFreeWeights:
		return true
	}
	return false
}

func (c *Category) UnmarshalText(b []byte) error {
	return parseEnum(c, string(b), "category", false)
}

// TimerStatus is the state of an exercise or run timer.
//
//	idle -> running -> paused -> running ... -> completed
//
// A running timer may also be completed directly.
type TimerStatus string

const (
	TimerIdle      TimerStatus = "idle"
	TimerRunning   TimerStatus = "running"
	TimerPaused    TimerStatus = "paused"
	TimerCompleted TimerStatus = "completed"
)

func (s TimerStatus) Valid() bool {
	switch s {
	case TimerIdle, TimerRunning, TimerPaused, TimerCompleted:
		return true
	}
	return false
}

// UnmarshalText accepts the empty string so documents written before timers
// existed can be decoded and backfilled.
func (s *TimerStatus) UnmarshalText(b []byte) error {
	return parseEnum(s, string(b), "timer status", true)
}

// Intensity is the user-reported intensity of a finished workout.
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very_high"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityLight, IntensityModerate, IntensityHigh, IntensityVeryHigh:
		return true
	}
	return false
}

func (i *Intensity) UnmarshalText(b []byte) error {
	return parseEnum(i, string(b), "intensity", true)
}

// Feeling is how the user felt after a workout or run.
type Feeling string

const (
	FeelingGreat     Feeling = "great"
	FeelingGood      Feeling = "good"
	FeelingOkay      Feeling = "okay"
	FeelingTired     Feeling = "tired"
	FeelingExhausted Feeling = "exhausted"
)

func (f Feeling) Valid() bool {
	switch f {
	case FeelingGreat, FeelingGood, FeelingOkay, FeelingTired, FeelingExhausted:
		return true
	}
	return false
}

func (f *Feeling) UnmarshalText(b []byte) error {
	return parseEnum(f, string(b), "feeling", true)
}

// RunType distinguishes walking from running sessions.
type RunType string

const (
	RunWalking RunType = "walking"
	RunRunning RunType = "running"
)

func (r RunType) Valid() bool {
	switch r {
	case RunWalking, RunRunning:
		return true
	}
	return false
}

func (r *RunType) UnmarshalText(b []byte) error {
	return parseEnum(r, string(b), "run type", false)
}

// Weather is the optional weather tag on a run.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherWindy  Weather = "windy"
	WeatherHot    Weather = "hot"
	WeatherCold   Weather = "cold"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy, WeatherWindy, WeatherHot, WeatherCold:
		return true
	}
	return false
}

func (w *Weather) UnmarshalText(b []byte) error {
	return parseEnum(w, string(b), "weather", true)
}

// Gender drives the BMR formula. The zero value means "not set".
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderUnset, GenderMale, GenderFemale:
		return true
	}
	return false
}

func (g *Gender) UnmarshalText(b []byte) error {
	return parseEnum(g, string(b), "gender", true)
}

// Trend is the direction of recent body-weight change.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type enum interface {
	~string
	Valid() bool
}

// parseEnum assigns raw to dst when it names a known value. Empty input is
// accepted only for optional enums.
func parseEnum[E enum](dst *E, raw, what string, optional bool) error {
	v := E(raw)
	if raw == "" && optional {
		*dst = v
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("unknown %s %q", what, raw)
	}
	*dst = v
	return nil
}
