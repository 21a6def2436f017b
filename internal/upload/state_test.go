package upload

import (
	"path/filepath"
	"testing"
	"time"
)

// TestStateDBRecord verifies an import outcome is found by content hash,
// replaced on re-record, and survives reopening.
func TestStateDBRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	state.now = func() time.Time { return at }

	if _, ok, err := state.Lookup("abc"); err != nil || ok {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}

	rec, err := state.Record(ImportRecord{Hash: "abc", Path: "/exports/a.csv", Kind: KindAlpha, Workouts: 4, SessionsMerged: 1, SessionsSkipped: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.ImportedAt.Equal(at) {
		t.Errorf("ImportedAt = %v, want %v", rec.ImportedAt, at)
	}

	got, ok, err := state.Lookup("abc")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if !got.ImportedAt.Equal(rec.ImportedAt) {
		t.Errorf("ImportedAt = %v, want %v", got.ImportedAt, rec.ImportedAt)
	}
	got.ImportedAt = rec.ImportedAt
	if got != rec {
		t.Errorf("got %+v, want %+v", got, rec)
	}

	if _, err := state.Record(ImportRecord{Hash: "abc", Path: "/exports/b.csv", Kind: KindAlpha, Workouts: 4, SessionsSkipped: 3}); err != nil {
		t.Fatal(err)
	}
	state.Close()

	state, err = OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	got, ok, _ = state.Lookup("abc")
	if !ok || got.Path != "/exports/b.csv" || got.SessionsSkipped != 3 || got.SessionsMerged != 0 {
		t.Errorf("after reopen: ok=%v rec=%+v", ok, got)
	}
}

// TestStateDBHistory verifies imports are listed newest first.
func TestStateDBHistory(t *testing.T) {
	state := openState(t)
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	for i, hash := range []string{"h1", "h2", "h3"} {
		rec := ImportRecord{Hash: hash, Path: "/exports/" + hash + ".json", Kind: KindJSON, ImportedAt: base.Add(time.Duration(i) * time.Hour)}
		if _, err := state.Record(rec); err != nil {
			t.Fatal(err)
		}
	}

	history, err := state.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(history))
	}
	for i, want := range []string{"h3", "h2", "h1"} {
		if history[i].Hash != want {
			t.Errorf("history[%d] = %s, want %s", i, history[i].Hash, want)
		}
	}
}

// TestContentHash verifies the SHA-256 of a known input.
func TestContentHash(t *testing.T) {
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := ContentHash([]byte("abc")); got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}
}
