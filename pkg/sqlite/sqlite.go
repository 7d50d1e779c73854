// Package sqlite implements the scheduler store on an embedded SQLite file,
// for single-user installs that do not run PostgreSQL.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// DB provides database operations using SQLite
type DB struct {
	db *sql.DB
}

// Open opens a SQLite database at the given path, creating the directory if
// needed. ":memory:" opens an in-memory database. Sets WAL mode, enables
// foreign keys and runs migrations.
func Open(path string) (*DB, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is its own database
	if path == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{db: conn}, nil
}

// Close closes the database
func (d *DB) Close() {
	d.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		email                TEXT NOT NULL DEFAULT '',
		role                 TEXT NOT NULL,
		monthly_target_hours REAL NOT NULL,
		hourly_wage          REAL NOT NULL DEFAULT 0,
		typical_workdays     INTEGER NOT NULL DEFAULT 0,
		prefers_weekends     INTEGER NOT NULL DEFAULT 0,
		profile              TEXT NOT NULL DEFAULT '{}',
		updated_at           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		id           TEXT PRIMARY KEY,
		month        TEXT NOT NULL UNIQUE,
		fingerprint  TEXT NOT NULL,
		data         BLOB NOT NULL,
		generated_at TEXT NOT NULL,
		finalized    INTEGER NOT NULL DEFAULT 0,
		finalized_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS consent_request (
		id           TEXT PRIMARY KEY,
		staff_id     TEXT NOT NULL,
		date         TEXT NOT NULL,
		shift_key    TEXT NOT NULL,
		status       TEXT NOT NULL,
		decision     TEXT NOT NULL DEFAULT '',
		requested_at TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consent_request_staff_date ON consent_request(staff_id, date)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id         TEXT PRIMARY KEY,
		month      TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_month ON audit_log(month, created_at)`,
}

// migrate runs every statement; all of them are idempotent
func migrate(conn *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as RFC 3339 text in UTC
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
