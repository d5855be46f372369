// Package store is the single durability primitive for the dashboard: a
// SQLite-backed key/value table holding one JSON document per logical key.
// Every other component is a typed view over one or more keys.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv schema: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, log: logger}, nil
}

// Get unmarshals the value stored under key into out. It never fails from
// the caller's perspective: a missing key or a malformed payload returns
// false and leaves the underlying row untouched (no auto-repair).
func (s *Store) Get(key string, out any) bool {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Warn("kv read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn("kv value corrupt, using default",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set overwrites the value under key with the JSON encoding of v.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Value reads key into a fresh T, returning def when the key is missing or
// its payload cannot be decoded.
func Value[T any](s *Store, key string, def T) T {
	var v T
	if s.Get(key, &v) {
		return v
	}
	return def
}
