package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

var _ Store = (*MemoryStore)(nil)

// Get returns a copy of the stored session or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, contactID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[contactID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	cp.History = append([]Entry(nil), sess.History...)
	return &cp, nil
}

// Upsert replaces history and snooze state, bumping LastUpdatedAt.
func (m *MemoryStore) Upsert(ctx context.Context, contactID string, history []Entry, snoozedUntil *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[contactID] = &Session{
		ContactID:     contactID,
		History:       append([]Entry(nil), history...),
		LastUpdatedAt: time.Now().UTC(),
		SnoozedUntil:  snoozedUntil,
	}
	return nil
}

// Snooze sets the snooze timestamp, creating the session when absent.
func (m *MemoryStore) Snooze(ctx context.Context, contactID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[contactID]
	if !ok {
		m.sessions[contactID] = &Session{
			ContactID:     contactID,
			LastUpdatedAt: time.Now().UTC(),
			SnoozedUntil:  &until,
		}
		return nil
	}
	sess.SnoozedUntil = &until
	return nil
}
