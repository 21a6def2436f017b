// Package tracker holds the pure transformations over AppData. Every
// operation takes a snapshot and returns a new one; the input is never
// modified, and nested slices are copied before they change.
package tracker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/timer"
)

var (
	// ErrNotFound is returned when an id does not match any record.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for input that cannot be stored.
	ErrInvalid = errors.New("invalid input")
)

// NotFound reports a missing record of the given kind.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// Tracker applies transformations using an injectable clock and id source.
type Tracker struct {
	clock timer.Clock
	newID func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithIDs replaces the random UUID generator, mainly for deterministic tests.
func WithIDs(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// New creates a Tracker reading time from clock.
func New(clock timer.Clock, opts ...Option) *Tracker {
	t := &Tracker{clock: clock, newID: uuid.NewString}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Clock returns the tracker's time source.
func (t *Tracker) Clock() timer.Clock { return t.clock }

// replace returns a copy of items with the element whose key matches id
// passed through fn.
func replace[T any](items []T, key func(T) string, id string, fn func(T) (T, error)) ([]T, error) {
	i := slices.IndexFunc(items, func(v T) bool { return key(v) == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	updated, err := fn(items[i])
	if err != nil {
		return nil, err
	}
	out := slices.Clone(items)
	out[i] = updated
	return out, nil
}

// without returns a copy of items minus the element whose key matches id.
func without[T any](items []T, key func(T) string, id string) ([]T, error) {
	i := slices.IndexFunc(items, func(v T) bool { return key(v) == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}

// appended returns a new slice with v added, never sharing items' array.
func appended[T any](items []T, v T) []T {
	return append(slices.Clip(items), v)
}
