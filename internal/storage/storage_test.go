package storage

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/meltforce/fittrack/internal/config"
)

// exerciseProvider runs the Load/Save contract shared by all providers.
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	if _, err := p.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load on empty store: err = %v, want ErrNoSnapshot", err)
	}
	if err := p.Save(ctx, []byte(`{"templates":[]}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Save(ctx, []byte(`{"templates":[{"id":"t1"}]}`)); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := `{"templates":[{"id":"t1"}]}`; string(got) != want {
		t.Errorf("Load = %s, want %s", got, want)
	}
}

// TestMemoryProvider verifies the in-memory provider keeps the latest save
// and hands out copies.
func TestMemoryProvider(t *testing.T) {
	m := NewMemory()
	exerciseProvider(t, m)

	doc, _ := m.Load(context.Background())
	doc[0] = 'X'
	again, _ := m.Load(context.Background())
	if again[0] != '{' {
		t.Error("Load returned shared backing array")
	}
	if m.Saves() != 2 {
		t.Errorf("Saves = %d, want 2", m.Saves())
	}
}

// TestSQLiteProvider verifies the SQLite provider against a temp database
// after running the embedded migrations.
func TestSQLiteProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fittrack.db")
	if err := RunMigrations("sqlite", "sqlite://"+path); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	// A second run is a no-op.
	if err := RunMigrations("sqlite", "sqlite://"+path); err != nil {
		t.Fatalf("RunMigrations again: %v", err)
	}

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	exerciseProvider(t, s)
}

// TestOpenSQLite verifies Open migrates and returns a working provider, and
// that the document survives reopening.
func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "state.db")},
	}
	p, err := Open(ctx, cfg, slog.Default())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Save(ctx, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	p.Close()

	p, err = Open(ctx, cfg, slog.Default())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p.Close()
	if doc, err := p.Load(ctx); err != nil || string(doc) != `{}` {
		t.Errorf("Load after reopen = %q, %v", doc, err)
	}
}

// TestOpenUnknownDriver verifies unsupported drivers are rejected.
func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "floppy"}, slog.Default())
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

// TestOpenMemory verifies the memory driver needs no settings.
func TestOpenMemory(t *testing.T) {
	p, err := Open(context.Background(), config.StorageConfig{Driver: config.DriverMemory}, slog.Default())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	exerciseProvider(t, p)
}
