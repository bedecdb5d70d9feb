package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Data is lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions []Session
	values   map[string]map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

func (m *MemoryStore) CreateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.ID == s.ID {
			return fmt.Errorf("memory storage: session %s already exists", s.ID)
		}
	}
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *MemoryStore) ActiveSession(_ context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].Active() {
			return m.sessions[i], nil
		}
	}
	return Session{}, ErrNotFound
}

func (m *MemoryStore) EndSession(_ context.Context, id string, endedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			t := endedAt
			m.sessions[i].EndedAt = &t
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) PurgeSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, id)
	return nil
}

func (m *MemoryStore) GetValue(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[sessionID][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) SetValue(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.values[sessionID]
	if !ok {
		kv = make(map[string]string)
		m.values[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (m *MemoryStore) DeleteValue(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[sessionID], key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
