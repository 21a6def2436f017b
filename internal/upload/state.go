package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ExportKind is the format of an imported export file.
type ExportKind string

const (
	KindJSON  ExportKind = "json" // browser AppData document, replaces the data
	KindAlpha ExportKind = "csv"  // Alpha Progression export, merged
)

// ImportRecord is the outcome of one imported export, keyed by the SHA-256
// of its content so a renamed or moved copy is still recognised.
type ImportRecord struct {
	Hash string
	Path string
	Kind ExportKind
	// Counts in the document as imported
	Workouts   int
	Runs       int
	BodyWeight int
	// Alpha sessions added to and already present in the document
	SessionsMerged  int
	SessionsSkipped int
	ImportedAt      time.Time
}

// StateDB remembers which exports were imported and what they changed.
type StateDB struct {
	db  *sql.DB
	now func() time.Time
}

const importsSchema = `CREATE TABLE IF NOT EXISTS imports (
	hash             TEXT PRIMARY KEY,
	path             TEXT NOT NULL,
	kind             TEXT NOT NULL CHECK (kind IN ('json', 'csv')),
	workouts         INTEGER NOT NULL DEFAULT 0,
	runs             INTEGER NOT NULL DEFAULT 0,
	body_weight      INTEGER NOT NULL DEFAULT 0,
	sessions_merged  INTEGER NOT NULL DEFAULT 0,
	sessions_skipped INTEGER NOT NULL DEFAULT 0,
	imported_at      TEXT NOT NULL
)`

// OpenStateDB opens (or creates) the import history at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(importsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating imports table: %w", err)
	}
	return &StateDB{db: db, now: time.Now}, nil
}

// stampLayout sorts lexically in time order.
const stampLayout = "2006-01-02T15:04:05.000000000Z"

const recordColumns = `hash, path, kind, workouts, runs, body_weight, sessions_merged, sessions_skipped, imported_at`

// Lookup returns the earlier import of content with the given hash.
func (s *StateDB) Lookup(hash string) (ImportRecord, bool, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM imports WHERE hash = ?`, hash)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportRecord{}, false, nil
	}
	if err != nil {
		return ImportRecord{}, false, fmt.Errorf("looking up %s: %w", hash, err)
	}
	return rec, true, nil
}

// Record stores the outcome of an import, stamping ImportedAt when unset.
// Importing the same content again replaces the earlier record.
func (s *StateDB) Record(rec ImportRecord) (ImportRecord, error) {
	if rec.ImportedAt.IsZero() {
		rec.ImportedAt = s.now()
	}
	rec.ImportedAt = rec.ImportedAt.UTC()
	_, err := s.db.Exec(`INSERT INTO imports (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO UPDATE SET
			path = excluded.path,
			kind = excluded.kind,
			workouts = excluded.workouts,
			runs = excluded.runs,
			body_weight = excluded.body_weight,
			sessions_merged = excluded.sessions_merged,
			sessions_skipped = excluded.sessions_skipped,
			imported_at = excluded.imported_at`,
		rec.Hash, rec.Path, string(rec.Kind), rec.Workouts, rec.Runs, rec.BodyWeight,
		rec.SessionsMerged, rec.SessionsSkipped, rec.ImportedAt.Format(stampLayout),
	)
	if err != nil {
		return rec, fmt.Errorf("recording import of %s: %w", rec.Path, err)
	}
	return rec, nil
}

// History lists every recorded import, newest first.
func (s *StateDB) History() ([]ImportRecord, error) {
	rows, err := s.db.Query(`SELECT ` + recordColumns + ` FROM imports ORDER BY imported_at DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("querying import history: %w", err)
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (ImportRecord, error) {
	var (
		rec  ImportRecord
		kind string
		at   string
	)
	err := row.Scan(&rec.Hash, &rec.Path, &kind, &rec.Workouts, &rec.Runs, &rec.BodyWeight,
		&rec.SessionsMerged, &rec.SessionsSkipped, &at)
	if err != nil {
		return rec, err
	}
	rec.Kind = ExportKind(kind)
	if rec.ImportedAt, err = time.Parse(stampLayout, at); err != nil {
		return rec, fmt.Errorf("parsing imported_at %q: %w", at, err)
	}
	return rec, nil
}

// ContentHash is the hex SHA-256 of an export's bytes.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
