package session

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStorage is the durable storage scope. It keeps the serialized
// AuthState in a single-row SQLite table so a login survives process
// restarts.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite creates or opens the auth database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent read access
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call on an existing database.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open auth database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to auth database: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Store upserts the single auth_state row.
func (s *SQLiteStorage) Store(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO auth_state (id, payload, updated_at)
		VALUES (1, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, string(data))
	if err != nil {
		return fmt.Errorf("store auth state: %w", err)
	}
	return nil
}

// Load reads the single auth_state row. A missing row is not an error.
func (s *SQLiteStorage) Load() ([]byte, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM auth_state WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load auth state: %w", err)
	}
	return []byte(payload), true, nil
}

// Clear deletes the auth_state row.
func (s *SQLiteStorage) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM auth_state WHERE id = 1`); err != nil {
		return fmt.Errorf("clear auth state: %w", err)
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
