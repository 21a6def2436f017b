package mcp

import (
	"context"

	"github.com/meltforce/fittrack/internal/app"
	"github.com/meltforce/fittrack/internal/models"
)

// DataSource abstracts where MCP tools read AppData from. StoreSource reads
// the in-process store; HTTPClient reads a remote fittrack server.
type DataSource interface {
	Snapshot(ctx context.Context) (models.AppData, error)
}

// StoreSource serves snapshots from a local store.
type StoreSource struct {
	Store *app.Store
}

func (s StoreSource) Snapshot(context.Context) (models.AppData, error) {
	return s.Store.Snapshot(), nil
}

// Compile-time checks.
var (
	_ DataSource = StoreSource{}
	_ DataSource = (*HTTPClient)(nil)
)
