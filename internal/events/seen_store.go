// Package events tracks which provider webhook deliveries were already
// handled, so redeliveries don't trigger duplicate AI calls.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

var seenTracer = otel.Tracer("concierge.internal.events.seen")

// seenTTL matches the session TTL; a redelivery after a day is effectively a
// new conversation anyway.
const seenTTL = 24 * time.Hour

// SeenStore records provider message ids in Redis.
type SeenStore struct {
	redis *redis.Client
}

// NewSeenStore wraps a Redis client.
func NewSeenStore(client *redis.Client) *SeenStore {
	if client == nil {
		panic("events: redis client cannot be nil")
	}
	return &SeenStore{redis: client}
}

// MarkSeen records a message id and reports whether this was the first
// delivery. The id expires after seenTTL.
func (s *SeenStore) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	ctx, span := seenTracer.Start(ctx, "events.mark_seen")
	defer span.End()

	first, err := s.redis.SetNX(ctx, seenKey(messageID), 1, seenTTL).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("events: mark seen: %w", err)
	}
	return first, nil
}

func seenKey(messageID string) string {
	return fmt.Sprintf("seen:%s", messageID)
}
