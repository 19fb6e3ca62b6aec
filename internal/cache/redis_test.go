package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"sent":150}`), time.Minute))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"sent":150}`), got)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 5*time.Minute))
	mr.FastForward(6 * time.Minute)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreDeleteByPrefix(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "mailpulse:v1:mailbox:entity:m1:summary:aa", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "mailpulse:v1:mailbox:entity:m1:summary:bb", []byte("2"), time.Minute))
	require.NoError(t, store.Set(ctx, "mailpulse:v1:mailbox:query:aggregate:cc", []byte("3"), time.Minute))
	require.NoError(t, store.Set(ctx, "mailpulse:v1:domain:query:aggregate:dd", []byte("4"), time.Minute))

	n, err := store.DeleteByPrefix(ctx, "mailpulse:v1:mailbox:entity:m1:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.DeleteByPrefix(ctx, "mailpulse:v1:mailbox:")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// the other kind's entries are untouched
	got, err := store.Get(ctx, "mailpulse:v1:domain:query:aggregate:dd")
	require.NoError(t, err)
	assert.Equal(t, []byte("4"), got)
}

func TestRedisStoreUnavailableDegrades(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()
	ctx := context.Background()

	// the QueryCache on top turns these errors into pass-through behavior
	qc := New(store, DefaultTTLConfig())
	var out string
	assert.False(t, qc.Get(ctx, "k", TierRecent, &out))
	assert.NotPanics(t, func() { qc.Set(ctx, "k", TierRecent, "v") })
	assert.Equal(t, 0, qc.Invalidate(ctx, "mailpulse:v1:"))
}
