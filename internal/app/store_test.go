package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/timer"
	"github.com/meltforce/fittrack/internal/tracker"
)

var t0 = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTracker() *tracker.Tracker {
	return tracker.New(timer.NewFixedClock(t0))
}

func closeStore(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// TestOpenSeedsDemo verifies an empty store starts with the demo dataset and
// persists it.
func TestOpenSeedsDemo(t *testing.T) {
	mem := storage.NewMemory()
	s, err := Open(context.Background(), mem, newTracker(), quietLog())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := len(s.Snapshot().Templates); got != 12 {
		t.Errorf("templates = %d, want 12 demo templates", got)
	}
	closeStore(t, s)

	raw, err := mem.Load(context.Background())
	if err != nil {
		t.Fatalf("demo data not saved: %v", err)
	}
	saved, err := snapshot.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.RunSessions) != 4 {
		t.Errorf("saved runs = %d, want 4", len(saved.RunSessions))
	}
}

// TestOpenLoadsAndMigrates verifies a saved legacy document is loaded with
// missing collections backfilled.
func TestOpenLoadsAndMigrates(t *testing.T) {
	mem := storage.NewMemory()
	mem.Save(context.Background(), []byte(`{"templates":[],"trainingDays":[],"workouts":[]}`))

	s, err := Open(context.Background(), mem, newTracker(), quietLog())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeStore(t, s)
	data := s.Snapshot()
	if data.BodyWeight == nil || data.RunSessions == nil {
		t.Errorf("collections not backfilled: %+v", data)
	}
	if len(data.Templates) != 0 {
		t.Error("saved document was replaced by demo data")
	}
}

// TestOpenRejectsMalformed verifies a corrupt document fails Open and is
// left in storage untouched.
func TestOpenRejectsMalformed(t *testing.T) {
	mem := storage.NewMemory()
	mem.Save(context.Background(), []byte(`{"workouts":`))

	if _, err := Open(context.Background(), mem, newTracker(), quietLog()); err == nil {
		t.Fatal("expected error for malformed document")
	}
	raw, _ := mem.Load(context.Background())
	if string(raw) != `{"workouts":` {
		t.Errorf("stored document changed to %s", raw)
	}
}

// TestUpdateError verifies a failing mutation leaves the snapshot as is.
func TestUpdateError(t *testing.T) {
	s, err := Open(context.Background(), storage.NewMemory(), newTracker(), quietLog())
	if err != nil {
		t.Fatal(err)
	}
	defer closeStore(t, s)

	before := s.Snapshot()
	_, err = s.Update(func(d models.AppData) (models.AppData, error) {
		return s.Tracker().DeleteTemplate(d, "missing")
	})
	if !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(s.Snapshot().Templates) != len(before.Templates) {
		t.Error("snapshot changed after failed update")
	}
}

type failingProvider struct {
	storage.Memory
	mu    sync.Mutex
	tries int
}

func (f *failingProvider) Save(context.Context, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tries++
	return errors.New("quota exceeded")
}

// TestSaveFailureSwallowed verifies storage errors never reach callers and
// the in-memory data stays current.
func TestSaveFailureSwallowed(t *testing.T) {
	p := &failingProvider{}
	s, err := Open(context.Background(), p, newTracker(), quietLog())
	if err != nil {
		t.Fatal(err)
	}
	data, err := s.Update(func(d models.AppData) (models.AppData, error) {
		d, _, err := s.Tracker().AddBodyWeight(d, 79.9)
		return d, err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if stats := s.Snapshot(); len(stats.BodyWeight) != len(data.BodyWeight) {
		t.Error("snapshot not updated")
	}
	closeStore(t, s)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tries == 0 {
		t.Error("no save attempted")
	}
}

// gatedProvider blocks every Save until the gate is opened.
type gatedProvider struct {
	storage.Memory
	gate chan struct{}
}

func (g *gatedProvider) Save(ctx context.Context, doc []byte) error {
	<-g.gate
	return g.Memory.Save(ctx, doc)
}

// TestSavesCoalesce verifies a burst of updates while a save is in flight
// results in the newest snapshot being written, not one save per update.
func TestSavesCoalesce(t *testing.T) {
	g := &gatedProvider{gate: make(chan struct{})}
	s, err := Open(context.Background(), g, newTracker(), quietLog())
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	for i := range n {
		_, err := s.Update(func(d models.AppData) (models.AppData, error) {
			d.UserProfile.Height = float64(150 + i)
			return d, nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	close(g.gate)
	closeStore(t, s)

	if saves := g.Saves(); saves > 3 {
		t.Errorf("Saves = %d, want at most 3 for %d updates", saves, n)
	}
	raw, _ := g.Load(context.Background())
	saved, err := snapshot.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if saved.UserProfile.Height != 150+n-1 {
		t.Errorf("saved height = %v, want %d", saved.UserProfile.Height, 150+n-1)
	}
}

// TestUpdateAfterClose verifies the store refuses updates once closed.
func TestUpdateAfterClose(t *testing.T) {
	s, err := Open(context.Background(), storage.NewMemory(), newTracker(), quietLog())
	if err != nil {
		t.Fatal(err)
	}
	closeStore(t, s)
	closeStore(t, s)
	if _, err := s.Update(func(d models.AppData) (models.AppData, error) { return d, nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

// TestReplaceMigrates verifies a bulk replace backfills missing fields.
func TestReplaceMigrates(t *testing.T) {
	s, err := Open(context.Background(), storage.NewMemory(), newTracker(), quietLog())
	if err != nil {
		t.Fatal(err)
	}
	defer closeStore(t, s)

	data, err := s.Replace(models.AppData{Workouts: []models.Workout{{ID: "w", Completed: true, Exercises: []models.WorkoutExercise{{ID: "e", Completed: true}}}}})
	if err != nil {
		t.Fatal(err)
	}
	if data.Workouts[0].Exercises[0].Status != models.TimerCompleted || data.Templates == nil {
		t.Errorf("replace not migrated: %+v", data)
	}
}
