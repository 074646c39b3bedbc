package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SeenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSeenStore(client), mr
}

func TestMarkSeen_FirstDelivery(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestMarkSeen_Redelivery(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)

	first, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)
	assert.False(t, first)
}

func TestMarkSeen_DistinctIDsAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)
	require.True(t, first)

	first, err = store.MarkSeen(context.Background(), "MSG-2")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestMarkSeen_ExpiresAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)

	_, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)

	mr.FastForward(24*time.Hour + time.Second)

	first, err := store.MarkSeen(context.Background(), "MSG-1")
	require.NoError(t, err)
	assert.True(t, first, "expired ids are treated as new deliveries")
}

func TestMarkSeen_RedisDownIsError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.MarkSeen(context.Background(), "MSG-1")
	assert.Error(t, err)
}
