package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the day-granularity format used for workout, run and
// body-weight dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. It marshals as "2006-01-02" and also accepts full
// RFC 3339 timestamps, keeping only the date part.
type Date struct {
	time.Time
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date-only or RFC 3339 string.
func ParseDate(s string) (Date, error) {
	var d Date
	if err := d.Parse(s); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Parse parses a date string, trying date-only first, then RFC 3339.
func (d *Date) Parse(s string) error {
	parsed, err := time.Parse(DateLayout, s)
	if err == nil {
		d.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(time.RFC3339Nano, s)
	if err2 == nil {
		*d = DateOf(parsed)
		return nil
	}
	return fmt.Errorf("cannot parse date %q: %w", s, err)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.Parse(s)
}
