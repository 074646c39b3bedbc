package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no session exists for a contact.
var ErrNotFound = errors.New("session: not found")

// Store persists one session per contact.
type Store interface {
	// Get returns the stored session or ErrNotFound.
	Get(ctx context.Context, contactID string) (*Session, error)

	// Upsert inserts or replaces the session's history and snooze timestamp,
	// bumping last_updated_at to now.
	Upsert(ctx context.Context, contactID string, history []Entry, snoozedUntil *time.Time) error

	// Snooze sets snoozed_until without touching history. A missing session
	// is created with empty history.
	Snooze(ctx context.Context, contactID string, until time.Time) error
}
