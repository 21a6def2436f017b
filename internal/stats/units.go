// Package stats derives statistics from AppData: calorie and BMR estimates,
// run pace and speed, body-weight trends and personal records. Every function
// is a pure read of its inputs.
package stats

import (
	"fmt"
	"math"
	"time"
)

// Sanitize coerces NaN and infinities from unparsable form input to 0.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RoundWeight rounds a lifted weight to the nearest 0.5 kg.
func RoundWeight(w float64) float64 {
	return math.Round(Sanitize(w)*2) / 2
}

// RoundBodyWeight rounds a body weight to 0.1 kg.
func RoundBodyWeight(w float64) float64 {
	return round1(Sanitize(w))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// TodayWeekday returns the ISO weekday of t (Mon=1 .. Sun=7).
func TodayWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// FormatClock formats seconds as m:ss.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatHMS formats seconds as h:mm:ss, or m:ss under an hour.
func FormatHMS(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatPace formats a pace in seconds per km as m:ss, or "--:--" when unknown.
func FormatPace(pace float64) string {
	if pace <= 0 || math.IsInf(pace, 0) || math.IsNaN(pace) {
		return "--:--"
	}
	m := int(pace / 60)
	s := int(math.Round(math.Mod(pace, 60)))
	if s == 60 {
		m, s = m+1, 0
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
