// Package session manages the login-scoped state shared between command
// invocations: the session id, its key-value data and the catalog cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/storage"
)

// ErrNoSession is returned when no session is active.
var ErrNoSession = errors.New("no active session, run 'pawfetch login' first")

// Manager creates and tears down sessions on a storage.Store.
type Manager struct {
	store  storage.Store
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewManager returns a Manager backed by store.
func NewManager(store storage.Store, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Manager{
		store:  store,
		logger: logger.With("component", "session"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Start ends any active session and opens a new one.
func (m *Manager) Start(ctx context.Context) (storage.Session, error) {
	if err := m.End(ctx); err != nil && !errors.Is(err, ErrNoSession) {
		return storage.Session{}, err
	}
	s := storage.Session{ID: m.newID(), CreatedAt: m.now()}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return storage.Session{}, fmt.Errorf("start session: %w", err)
	}
	m.logger.Info("session started", "session_id", s.ID)
	return s, nil
}

// Current returns the active session.
func (m *Manager) Current(ctx context.Context) (storage.Session, error) {
	s, err := m.store.ActiveSession(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, ErrNoSession
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// End deletes the active session's data and marks it ended.
func (m *Manager) End(ctx context.Context) error {
	s, err := m.Current(ctx)
	if err != nil {
		return err
	}
	if err := m.store.PurgeSession(ctx, s.ID); err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	if err := m.store.EndSession(ctx, s.ID, m.now()); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	m.logger.Info("session ended", "session_id", s.ID)
	return nil
}

// Values returns the key-value data of the active session.
func (m *Manager) Values(ctx context.Context) (*Values, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &Values{store: m.store, sessionID: s.ID}, nil
}

// Values is the key-value data of one session.
type Values struct {
	store     storage.Store
	sessionID string
}

// Get returns the value for key and whether it exists.
func (v *Values) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := v.store.GetValue(ctx, v.sessionID, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key.
func (v *Values) Set(ctx context.Context, key, value string) error {
	return v.store.SetValue(ctx, v.sessionID, key, value)
}

// Delete removes key.
func (v *Values) Delete(ctx context.Context, key string) error {
	return v.store.DeleteValue(ctx, v.sessionID, key)
}
