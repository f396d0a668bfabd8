/*
Package sqlite provides the SQLite-backed implementation of store.Store.

PURPOSE:
  Persists every collection as one JSON document in a single
  collections table. The document model keeps the schema independent
  of the record shapes; adding a collection is adding a key, not a
  migration.

KEY TABLE:
  collections: key TEXT PRIMARY KEY, data TEXT, updated_at TEXT

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of the database handle.
  Handlers already serialize read-modify-write per request, so the
  store only has to keep individual documents consistent.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/pflegenetz.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: interface and collection keys
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE (store.Store interface)
// =============================================================================

// Load returns the document stored under a key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM collections WHERE key = ?", key,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(data), true, nil
}

// Save writes or replaces the document under a key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO collections (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE key = ?", key)
	return err
}

// Reset clears all collections (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM collections")
	return err
}
