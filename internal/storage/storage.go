// Package storage persists the AppData document. Every provider stores one
// JSON document under snapshot.Key.
package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/meltforce/fittrack/internal/config"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Provider loads and saves the encoded document.
type Provider interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Close() error
}

//go:embed migrations
var migrationsFS embed.FS

// Open connects the provider selected by cfg.Driver, applying schema
// migrations for SQL backends.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (Provider, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := RunMigrations("sqlite", "sqlite://"+cfg.SQLite.Path); err != nil {
			return nil, err
		}
		return NewSQLite(cfg.SQLite.Path)
	case config.DriverPostgres:
		dsn := cfg.Postgres.DSN()
		if err := RunMigrations("postgres", dsn); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, dsn)
	case config.DriverS3:
		return NewS3(ctx, cfg.S3, log)
	case config.DriverMongo:
		return NewMongo(ctx, cfg.Mongo)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// RunMigrations applies the embedded migrations for dialect ("sqlite" or
// "postgres") to the database at url.
func RunMigrations(dialect, url string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", dialect, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
