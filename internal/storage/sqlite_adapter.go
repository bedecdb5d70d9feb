package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pawfetch/pawfetch/internal/storage/sqlite"
)

// sqliteStore adapts sqlite.SQLiteStorage rows and errors to Store.
type sqliteStore struct {
	db *sqlite.SQLiteStorage
}

func mapErr(err error) error {
	if errors.Is(err, sqlite.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *sqliteStore) CreateSession(ctx context.Context, sess Session) error {
	return s.db.InsertSession(ctx, sqlite.SessionRow{ID: sess.ID, CreatedAt: sess.CreatedAt})
}

func (s *sqliteStore) ActiveSession(ctx context.Context) (Session, error) {
	row, err := s.db.LatestActiveSession(ctx)
	if err != nil {
		return Session{}, mapErr(err)
	}
	return Session{ID: row.ID, CreatedAt: row.CreatedAt, EndedAt: row.EndedAt}, nil
}

func (s *sqliteStore) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	return mapErr(s.db.MarkSessionEnded(ctx, id, endedAt))
}

func (s *sqliteStore) PurgeSession(ctx context.Context, id string) error {
	return s.db.DeleteSessionValues(ctx, id)
}

func (s *sqliteStore) GetValue(ctx context.Context, sessionID, key string) (string, error) {
	v, err := s.db.GetValue(ctx, sessionID, key)
	return v, mapErr(err)
}

func (s *sqliteStore) SetValue(ctx context.Context, sessionID, key, value string) error {
	return s.db.UpsertValue(ctx, sessionID, key, value)
}

func (s *sqliteStore) DeleteValue(ctx context.Context, sessionID, key string) error {
	return s.db.DeleteValue(ctx, sessionID, key)
}

func (s *sqliteStore) Close() error { return s.db.Close() }
