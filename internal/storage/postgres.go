package storage

import (
	"context"
	"errors"
	"fmt"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meltforce/fittrack/internal/snapshot"
)

// Postgres stores the document as JSONB in the app_state table.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres creates a connection pool and checks it with a ping.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := p.Pool.QueryRow(ctx,
		`SELECT doc::text FROM app_state WHERE key = $1`, snapshot.Key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return doc, nil
}

func (p *Postgres) Save(ctx context.Context, doc []byte) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO app_state (key, doc, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		snapshot.Key, string(doc))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
