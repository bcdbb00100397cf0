package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

const createSessionTable = `
CREATE TABLE IF NOT EXISTS session_storage (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`

// SQLiteStorage keeps keys in the session_storage table.
type SQLiteStorage struct {
	db    *sql.DB
	owned bool
}

// NewSQLiteStorage uses db as is and creates the table when missing.
// The caller keeps ownership of db.
func NewSQLiteStorage(ctx context.Context, db *sql.DB) (*SQLiteStorage, error) {
	if _, err := db.ExecContext(ctx, createSessionTable); err != nil {
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStorage(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}

// Close closes the database if OpenSQLite opened it.
func (s *SQLiteStorage) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
