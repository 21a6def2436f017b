// Package app holds the single in-memory AppData snapshot and persists it in
// the background.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/tracker"
)

const saveTimeout = 10 * time.Second

// ErrClosed is returned by Update after Close.
var ErrClosed = errors.New("store closed")

// Store serialises mutations of the AppData snapshot. Every successful
// mutation replaces the whole snapshot and queues it for saving; only the
// newest queued snapshot is written. Save failures are logged and dropped,
// the in-memory snapshot stays authoritative.
//
// Snapshots handed out by the store share backing arrays with it and must
// be treated as read-only.
type Store struct {
	tracker  *tracker.Tracker
	provider storage.Provider
	log      *slog.Logger

	mu     sync.RWMutex
	data   models.AppData
	closed bool

	pending chan []byte
	done    chan struct{}
}

// Open loads the persisted document, migrating it, or seeds the demo dataset
// when nothing was saved yet. A document that fails to decode is an error:
// it is left untouched in storage.
func Open(ctx context.Context, provider storage.Provider, tr *tracker.Tracker, log *slog.Logger) (*Store, error) {
	s := &Store{
		tracker:  tr,
		provider: provider,
		log:      log,
		pending:  make(chan []byte, 1),
		done:     make(chan struct{}),
	}

	raw, err := provider.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		s.data = snapshot.Demo(tr.Clock().Now())
		log.Info("no saved data, loaded demo dataset")
		s.enqueue(s.data)
	case err != nil:
		return nil, fmt.Errorf("loading data: %w", err)
	default:
		data, err := snapshot.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("loading data: %w", err)
		}
		s.data = data
		log.Info("data loaded",
			"workouts", len(data.Workouts),
			"runs", len(data.RunSessions),
			"body_weight", len(data.BodyWeight))
	}

	go s.persist()
	return s, nil
}

// Tracker returns the tracker used to build mutations.
func (s *Store) Tracker() *tracker.Tracker { return s.tracker }

// Snapshot returns the current data.
func (s *Store) Snapshot() models.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Update applies fn to the current snapshot. When fn fails the snapshot is
// unchanged and the error is returned.
func (s *Store) Update(fn func(models.AppData) (models.AppData, error)) (models.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.data, ErrClosed
	}
	next, err := fn(s.data)
	if err != nil {
		return s.data, err
	}
	s.data = next
	s.enqueue(next)
	return next, nil
}

// Replace swaps in a whole document after migrating it.
func (s *Store) Replace(data models.AppData) (models.AppData, error) {
	return s.Update(func(models.AppData) (models.AppData, error) {
		return snapshot.Migrate(data), nil
	})
}

// enqueue encodes data and leaves it as the only pending save. Callers hold
// the write lock or run before persist starts.
func (s *Store) enqueue(data models.AppData) {
	raw, err := snapshot.Encode(data)
	if err != nil {
		s.log.Error("encoding data for save", "error", err)
		return
	}
	select {
	case s.pending <- raw:
	default:
		select {
		case <-s.pending:
		default:
		}
		s.pending <- raw
	}
}

func (s *Store) persist() {
	defer close(s.done)
	for raw := range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.provider.Save(ctx, raw); err != nil {
			s.log.Error("saving data", "error", err, "bytes", len(raw))
		}
		cancel()
	}
}

// Close stops accepting updates and waits for the pending save, if any, to
// finish or for ctx to expire.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.pending)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flushing data: %w", ctx.Err())
	}
}
