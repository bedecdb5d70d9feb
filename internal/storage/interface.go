// Package storage persists browsing sessions and their per-session values.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session or key does not exist.
var ErrNotFound = errors.New("not found")

// Session is one login-to-logout span.
type Session struct {
	ID        string
	CreatedAt time.Time
	// EndedAt is nil while the session is active.
	EndedAt *time.Time
}

// Active reports whether the session has not been ended.
func (s Session) Active() bool { return s.EndedAt == nil }

// Store defines the persistence operations for sessions and their key-value data.
type Store interface {
	CreateSession(ctx context.Context, s Session) error
	// ActiveSession returns the most recently created session that has not ended.
	ActiveSession(ctx context.Context) (Session, error)
	EndSession(ctx context.Context, id string, endedAt time.Time) error
	// PurgeSession deletes all key-value rows of the session.
	PurgeSession(ctx context.Context, id string) error

	GetValue(ctx context.Context, sessionID, key string) (string, error)
	SetValue(ctx context.Context, sessionID, key, value string) error
	DeleteValue(ctx context.Context, sessionID, key string) error

	Close() error
}
