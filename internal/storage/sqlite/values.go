package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetValue returns the value stored under key for the session.
func (s *SQLiteStorage) GetValue(ctx context.Context, sessionID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE session_id = ? AND key = ?`, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite storage: get value: %w", err)
	}
	return value, nil
}

// UpsertValue writes value under key, replacing any previous value.
func (s *SQLiteStorage) UpsertValue(ctx context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite storage: upsert value: %w", err)
	}
	return nil
}

// DeleteValue removes one key of the session. Missing keys are not an error.
func (s *SQLiteStorage) DeleteValue(ctx context.Context, sessionID, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE session_id = ? AND key = ?`, sessionID, key); err != nil {
		return fmt.Errorf("sqlite storage: delete value: %w", err)
	}
	return nil
}

// DeleteSessionValues removes every key of the session.
func (s *SQLiteStorage) DeleteSessionValues(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("sqlite storage: purge session: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite storage: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
