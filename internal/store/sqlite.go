package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ResearchStore = (*SQLiteStore)(nil)

// SQLiteStore implements ResearchStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS research_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol      TEXT NOT NULL,
	report      TEXT NOT NULL DEFAULT '',
	assessment  TEXT NOT NULL DEFAULT '',
	iterations  INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_research_symbol ON research_history (symbol, created_at DESC);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResearch inserts a completed run and populates the record's ID.
func (s *SQLiteStore) SaveResearch(ctx context.Context, rec *ResearchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO research_history (symbol, report, assessment, iterations, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Symbol, rec.Report, rec.Assessment, rec.Iterations, rec.CreatedAt.UnixMilli())
	if err != nil {
		return err
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// ListResearch returns the most recent runs for a symbol, newest first.
func (s *SQLiteStore) ListResearch(ctx context.Context, symbol string, limit int) ([]ResearchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, report, assessment, iterations, created_at
		 FROM research_history WHERE symbol = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// AllResearch returns every stored run, newest first.
func (s *SQLiteStore) AllResearch(ctx context.Context) ([]ResearchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, report, assessment, iterations, created_at
		 FROM research_history ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]ResearchRecord, error) {
	var recs []ResearchRecord
	for rows.Next() {
		var rec ResearchRecord
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Report, &rec.Assessment,
			&rec.Iterations, &createdMs); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
