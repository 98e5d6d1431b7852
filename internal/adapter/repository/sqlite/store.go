// Package sqlite is the embedded storage backend. It mirrors the
// postgres adapter over database/sql so deployments without a
// PostgreSQL server can run the same service.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS holders (
	id         TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	birth_date TEXT,
	address    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id              TEXT PRIMARY KEY,
	holder_id       TEXT NOT NULL REFERENCES holders(id),
	kind            TEXT NOT NULL,
	balance         TEXT NOT NULL,
	overdraft_limit TEXT NOT NULL,
	interest_rate   TEXT NOT NULL,
	version         INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id                TEXT PRIMARY KEY,
	account_id        TEXT NOT NULL REFERENCES accounts(id),
	seq               INTEGER NOT NULL,
	kind              TEXT NOT NULL,
	amount            TEXT NOT NULL,
	resulting_balance TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	UNIQUE (account_id, seq)
);

CREATE TABLE IF NOT EXISTS outbox_events (
	id             TEXT PRIMARY KEY,
	aggregate_id   TEXT NOT NULL,
	aggregate_type TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	published      INTEGER NOT NULL DEFAULT 0,
	published_at   TEXT
);
`

// Store owns the SQLite database handle and its schema.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Pass ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:?mode=memory&cache=shared&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer; a second connection would only
	// trade lock errors for waiting.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
