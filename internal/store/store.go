// Package store provides SQLite persistence for user preferences.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/hackerstories/internal/pager"
	_ "modernc.org/sqlite"
)

// Preference keys.
const (
	KeySearch    = "search"
	KeyPagerMode = "pager_mode"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to ":memory:" gets its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// GetPref returns the stored value for key. ok is false when the key has
// never been written.
func (s *Store) GetPref(key string) (value string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %q: %w", key, err)
	}
	return value, true, nil
}

// SetPref upserts key.
func (s *Store) SetPref(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set pref %q: %w", key, err)
	}
	return nil
}

// SearchTerm returns the last search term, or def if none was saved.
// An empty string is a valid saved term.
func (s *Store) SearchTerm(def string) (string, error) {
	v, ok, err := s.GetPref(KeySearch)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// SetSearchTerm saves the search term.
func (s *Store) SetSearchTerm(term string) error {
	return s.SetPref(KeySearch, term)
}

// PagerMode returns the last pager mode, or def if none was saved or the
// saved value is no longer a known mode.
func (s *Store) PagerMode(def pager.Mode) (pager.Mode, error) {
	v, ok, err := s.GetPref(KeyPagerMode)
	if err != nil || !ok {
		return def, err
	}
	m, err := pager.ParseMode(v)
	if err != nil {
		return def, nil
	}
	return m, nil
}

// SetPagerMode saves the pager mode.
func (s *Store) SetPagerMode(m pager.Mode) error {
	return s.SetPref(KeyPagerMode, string(m))
}
