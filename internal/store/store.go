// Package store is the local SQLite persistence layer: the topic library,
// live session snapshots, and the append-only attempt log. It doubles as
// the offline implementation of the backend contract.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database handle and owns the schema.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies pragmas, and
// creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			topic_id    TEXT PRIMARY KEY,
			topic_name  TEXT NOT NULL,
			supertopic  TEXT NOT NULL DEFAULT '',
			plan_json   TEXT NOT NULL,
			imported_at TEXT NOT NULL
		)`,
		// One row per session, keyed by session_id: finished rows
		// accumulate across retakes of the same topic. The partial
		// index caps the live rows at one per (learner, topic); the
		// live row is overwritten by every debounced save and deleted
		// on terminate.
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id   TEXT PRIMARY KEY,
			learner_id   TEXT NOT NULL,
			topic_id     TEXT NOT NULL,
			cursors_json TEXT NOT NULL DEFAULT '{}',
			finished     INTEGER NOT NULL DEFAULT 0,
			saved_at     TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_live
		 ON sessions (learner_id, topic_id) WHERE finished = 0`,
		// Append-only. seq gives a total order across the whole log,
		// independent of per-session interleaving.
		`CREATE TABLE IF NOT EXISTS attempts (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			subtopic_id  TEXT NOT NULL,
			question_id  TEXT NOT NULL,
			variant_no   INTEGER NOT NULL,
			chosen_index INTEGER NOT NULL,
			correct      INTEGER NOT NULL,
			created_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts (session_id, seq)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LESSONLOOP_DB environment variable
// 2. $XDG_DATA_HOME/lessonloop/lessonloop.db
// 3. ~/.local/share/lessonloop/lessonloop.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LESSONLOOP_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lessonloop", "lessonloop.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Setting reads one settings value; empty string when absent.
func (s *Store) Setting(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return v, nil
}

// SetSetting writes one settings value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
