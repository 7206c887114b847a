// Package store persists completed research runs locally so past reports
// can be reviewed without re-querying the backend.
package store

import (
	"context"
	"time"
)

// ResearchRecord is one completed research run for a symbol.
type ResearchRecord struct {
	ID         int64
	Symbol     string
	Report     string
	Assessment string
	Iterations int
	CreatedAt  time.Time
}

// ResearchStore persists and retrieves research history.
type ResearchStore interface {
	// SaveResearch inserts a completed run. The record's ID is populated
	// on return.
	SaveResearch(ctx context.Context, rec *ResearchRecord) error

	// ListResearch returns the most recent runs for a symbol, newest
	// first, up to limit.
	ListResearch(ctx context.Context, symbol string, limit int) ([]ResearchRecord, error)

	// AllResearch returns every stored run, newest first.
	AllResearch(ctx context.Context) ([]ResearchRecord, error)

	// Close releases the underlying storage.
	Close() error
}
