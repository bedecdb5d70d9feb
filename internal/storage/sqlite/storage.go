// Package sqlite provides a SQLite-backed session store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	ended_at   TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
CREATE TABLE IF NOT EXISTS kv (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session_id, key)
);
`

// SessionRow is a row of the sessions table.
type SessionRow struct {
	ID        string
	CreatedAt time.Time
	EndedAt   *time.Time
}

// SQLiteStorage stores sessions and their values in a SQLite database.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage creates a SQLite-backed store at the provided path.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	storage := &SQLiteStorage{db: db, now: time.Now}
	if err := storage.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// InsertSession adds a new active session.
func (s *SQLiteStorage) InsertSession(ctx context.Context, row SessionRow) error {
	if strings.TrimSpace(row.ID) == "" {
		return ErrInvalidSessionID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, ended_at) VALUES (?, ?, NULL)`,
		row.ID, row.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite storage: insert session: %w", err)
	}
	return nil
}

// LatestActiveSession returns the newest session with no end time.
func (s *SQLiteStorage) LatestActiveSession(ctx context.Context) (SessionRow, error) {
	var (
		row       SessionRow
		createdAt string
		endedAt   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, ended_at FROM sessions
		 WHERE ended_at IS NULL
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&row.ID, &createdAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{}, ErrNotFound
	}
	if err != nil {
		return SessionRow{}, fmt.Errorf("sqlite storage: query active session: %w", err)
	}
	if row.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return SessionRow{}, fmt.Errorf("sqlite storage: parse created_at: %w", err)
	}
	if endedAt.Valid {
		t, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return SessionRow{}, fmt.Errorf("sqlite storage: parse ended_at: %w", err)
		}
		row.EndedAt = &t
	}
	return row, nil
}

// MarkSessionEnded sets the end time of a session.
func (s *SQLiteStorage) MarkSessionEnded(ctx context.Context, id string, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		endedAt.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("sqlite storage: end session: %w", err)
	}
	return requireAffected(res)
}
