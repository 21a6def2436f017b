package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/fittrack/internal/alpha"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
	"github.com/meltforce/fittrack/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	Templates  int
	Workouts   int
	Runs       int
	BodyWeight int

	// Alpha Progression sessions
	SessionsMerged  int
	SessionsSkipped int

	// Earlier imports of files skipped in this run
	Previous []ImportRecord
}

// Target receives an imported document and supplies the current one for
// merging.
type Target interface {
	Snapshot(ctx context.Context) (models.AppData, error)
	Import(ctx context.Context, data models.AppData) error
}

// RemoteTarget replaces the document on a fittrack server.
type RemoteTarget struct {
	Client *Client
}

func (t RemoteTarget) Snapshot(ctx context.Context) (models.AppData, error) {
	doc, err := t.Client.FetchSnapshot(ctx)
	if err != nil {
		return models.AppData{}, err
	}
	return snapshot.Decode(doc)
}

func (t RemoteTarget) Import(ctx context.Context, data models.AppData) error {
	doc, err := snapshot.Encode(data)
	if err != nil {
		return err
	}
	_, err = t.Client.PushSnapshot(ctx, doc)
	return err
}

// StorageTarget writes the document straight to a persistence provider.
// The server must not be running against the same storage.
type StorageTarget struct {
	Provider storage.Provider
}

// Snapshot loads the stored document, or an empty one when nothing is
// stored yet.
func (t StorageTarget) Snapshot(ctx context.Context) (models.AppData, error) {
	doc, err := t.Provider.Load(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return snapshot.Migrate(models.AppData{}), nil
	}
	if err != nil {
		return models.AppData{}, err
	}
	return snapshot.Decode(doc)
}

func (t StorageTarget) Import(ctx context.Context, data models.AppData) error {
	doc, err := snapshot.Encode(data)
	if err != nil {
		return err
	}
	return t.Provider.Save(ctx, doc)
}

// Uploader imports exported documents, skipping files that were already
// imported unchanged. JSON exports replace the document; Alpha Progression
// CSV exports are merged into it.
type Uploader struct {
	target Target
	state  *StateDB
	dryRun bool
	log    *slog.Logger
	newID  func() string
	stats  Stats
}

// New creates a new Uploader. target may be nil in dry-run mode.
func New(target Target, state *StateDB, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		target: target,
		state:  state,
		dryRun: dryRun,
		log:    log,
		newID:  uuid.NewString,
	}
}

// Run imports path, a single export file or a directory of *.json and *.csv
// exports. Directory entries are imported in name order, so with dated file
// names the newest JSON export ends up as the stored document.
func (u *Uploader) Run(ctx context.Context, path string) (*Stats, error) {
	files, err := CollectFiles(path)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.importFile(ctx, f); err != nil {
			u.log.Warn("import failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

func (u *Uploader) importFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	hash := ContentHash(raw)

	prev, seen, err := u.state.Lookup(hash)
	if err != nil {
		return fmt.Errorf("state check: %w", err)
	}
	if seen {
		u.log.Info("already imported",
			"file", path,
			"as", prev.Path,
			"at", prev.ImportedAt.Format(time.RFC3339),
			"kind", prev.Kind,
		)
		u.stats.FilesSkipped++
		u.stats.Previous = append(u.stats.Previous, prev)
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rec := ImportRecord{Hash: hash, Path: abs, Kind: KindJSON}

	var data models.AppData
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rec.Kind = KindAlpha
		var res alpha.Result
		data, res, err = u.mergeAlpha(ctx, raw)
		rec.SessionsMerged, rec.SessionsSkipped = res.Workouts, res.Skipped
	} else {
		data, err = decodeExport(raw)
	}
	if err != nil {
		return err
	}
	rec.Workouts = len(data.Workouts)
	rec.Runs = len(data.RunSessions)
	rec.BodyWeight = len(data.BodyWeight)

	if u.dryRun {
		u.log.Info("dry-run: would import",
			"file", path,
			"kind", rec.Kind,
			"workouts", rec.Workouts,
			"runs", rec.Runs,
		)
	} else {
		if err := u.target.Import(ctx, data); err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		if _, err := u.state.Record(rec); err != nil {
			u.log.Warn("failed to record import", "file", path, "error", err)
		}
		u.log.Info("imported", "file", path, "kind", rec.Kind, "workouts", rec.Workouts, "runs", rec.Runs)
	}

	u.stats.FilesImported++
	u.stats.Templates += len(data.Templates)
	u.stats.Workouts += rec.Workouts
	u.stats.Runs += rec.Runs
	u.stats.BodyWeight += rec.BodyWeight
	u.stats.SessionsMerged += rec.SessionsMerged
	u.stats.SessionsSkipped += rec.SessionsSkipped
	return nil
}

func decodeExport(raw []byte) (models.AppData, error) {
	doc, err := ExtractDocument(raw)
	if err != nil {
		return models.AppData{}, err
	}
	return snapshot.Decode(doc)
}

// mergeAlpha parses an Alpha Progression export and merges its sessions into
// the target's current document.
func (u *Uploader) mergeAlpha(ctx context.Context, raw []byte) (models.AppData, alpha.Result, error) {
	sessions, err := alpha.Parse(bytes.NewReader(raw))
	if err != nil {
		return models.AppData{}, alpha.Result{}, fmt.Errorf("parsing alpha export: %w", err)
	}

	current := snapshot.Migrate(models.AppData{})
	if u.target != nil {
		if current, err = u.target.Snapshot(ctx); err != nil {
			return models.AppData{}, alpha.Result{}, fmt.Errorf("loading current data: %w", err)
		}
	}

	merged, res := alpha.Merge(current, sessions, u.newID)
	if res.Templates > 0 {
		u.log.Info("alpha templates created", "count", res.Templates)
	}
	return merged, res, nil
}

// CollectFiles returns path itself when it is a file, or the sorted *.json
// and *.csv files directly inside it when it is a directory.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	for _, pattern := range []string{"*.json", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// ExtractDocument accepts either a bare AppData document or a dump of the
// browser's local storage, where the document sits under the gym_app_data
// key as an object or as a JSON-encoded string.
func ExtractDocument(raw []byte) ([]byte, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}
	inner, ok := top[snapshot.Key]
	if !ok {
		return raw, nil
	}
	var encoded string
	if err := json.Unmarshal(inner, &encoded); err == nil {
		return []byte(encoded), nil
	}
	return inner, nil
}
