package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

var storeTracer = otel.Tracer("concierge.internal.session.store")

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps sessions in the relational database.
type PostgresStore struct {
	pool querier
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("session: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// NewPostgresStoreWithQuerier is used by tests to inject a mock pool.
func NewPostgresStoreWithQuerier(q querier) *PostgresStore {
	if q == nil {
		panic("session: querier required")
	}
	return &PostgresStore{pool: q}
}

var _ Store = (*PostgresStore)(nil)

// Get loads the session row for a contact.
func (s *PostgresStore) Get(ctx context.Context, contactID string) (*Session, error) {
	ctx, span := storeTracer.Start(ctx, "session.get")
	defer span.End()

	query := `
		SELECT history, snoozed_until, last_updated_at
		FROM sessions
		WHERE contact_id = $1
	`
	var (
		raw           []byte
		snoozedUntil  *time.Time
		lastUpdatedAt time.Time
	)
	if err := s.pool.QueryRow(ctx, query, contactID).Scan(&raw, &snoozedUntil, &lastUpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: select failed: %w", err)
	}

	var history []Entry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &history); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("session: decode history: %w", err)
		}
	}
	return &Session{
		ContactID:     contactID,
		History:       history,
		LastUpdatedAt: lastUpdatedAt,
		SnoozedUntil:  snoozedUntil,
	}, nil
}

// Upsert writes history and snooze state, bumping last_updated_at.
func (s *PostgresStore) Upsert(ctx context.Context, contactID string, history []Entry, snoozedUntil *time.Time) error {
	ctx, span := storeTracer.Start(ctx, "session.upsert")
	defer span.End()

	if history == nil {
		history = []Entry{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: encode history: %w", err)
	}

	query := `
		INSERT INTO sessions (contact_id, history, snoozed_until, last_updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (contact_id) DO UPDATE
		SET history = EXCLUDED.history,
		    snoozed_until = EXCLUDED.snoozed_until,
		    last_updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, contactID, raw, snoozedUntil); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: upsert failed: %w", err)
	}
	return nil
}

// Snooze sets snoozed_until only. A missing row is created with empty history.
func (s *PostgresStore) Snooze(ctx context.Context, contactID string, until time.Time) error {
	ctx, span := storeTracer.Start(ctx, "session.snooze")
	defer span.End()

	query := `
		INSERT INTO sessions (contact_id, history, snoozed_until, last_updated_at)
		VALUES ($1, '[]', $2, now())
		ON CONFLICT (contact_id) DO UPDATE
		SET snoozed_until = EXCLUDED.snoozed_until
	`
	if _, err := s.pool.Exec(ctx, query, contactID, until); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: snooze failed: %w", err)
	}
	return nil
}
