package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL,
	sent_to TEXT NOT NULL,
	sent_count INTEGER NOT NULL,
	failed_count INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dispatches_created_at ON dispatches (created_at);

CREATE TABLE IF NOT EXISTS dispatch_failures (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dispatch_id TEXT NOT NULL REFERENCES dispatches (id),
	recipient TEXT NOT NULL,
	reason TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// Store is the dispatch log
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
