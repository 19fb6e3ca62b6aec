package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/mailpulse/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), time.Minute))
	require.NoError(t, s.Set(ctx, "k", []byte("v2"), time.Minute)) // overwrite wholesale

	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestMemoryStoreReadTimeExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 5*time.Minute))

	now = now.Add(4 * time.Minute)
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// past the deadline the entry is gone, with no sweeper involved
	now = now.Add(2 * time.Minute)
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a:1", []byte("x"), time.Minute))
	require.NoError(t, s.Set(ctx, "a:2", []byte("x"), time.Minute))
	require.NoError(t, s.Set(ctx, "b:1", []byte("x"), time.Minute))

	n, err := s.DeleteByPrefix(ctx, "a:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, s.Len())
}

func TestTierFor(t *testing.T) {
	now := time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, TierHistorical, TierFor(domain.DateRange{Start: "2024-01-01", End: "2024-01-31"}, now))
	assert.Equal(t, TierRecent, TierFor(domain.DateRange{Start: "2024-03-01", End: "2024-03-18"}, now))
	assert.Equal(t, TierRecent, TierFor(domain.DateRange{Start: "2024-03-01", End: "2024-06-01"}, now))
	assert.Equal(t, TierRecent, TierFor(domain.DateRange{}, now))
	assert.Equal(t, TierRecent, TierFor(domain.DateRange{End: "soon"}, now))
}

func TestQueryCacheRoundTrip(t *testing.T) {
	qc := New(NewMemoryStore(), DefaultTTLConfig())
	ctx := context.Background()

	payload := []domain.TimeSeriesPoint{
		{Key: "2024-01", Label: "Jan 2024", Metrics: domain.MetricsVector{Sent: 150}},
	}

	var out []domain.TimeSeriesPoint
	assert.False(t, qc.Get(ctx, "k", TierRecent, &out))

	qc.Set(ctx, "k", TierRecent, payload)
	require.True(t, qc.Get(ctx, "k", TierRecent, &out))
	assert.Equal(t, payload, out)
}

func TestQueryCacheTierTTLs(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	qc := New(store, TTLConfig{Recent: time.Minute, Historical: time.Hour})
	ctx := context.Background()

	qc.Set(ctx, "recent", TierRecent, "r")
	qc.Set(ctx, "historical", TierHistorical, "h")

	now = now.Add(10 * time.Minute)
	var s string
	assert.False(t, qc.Get(ctx, "recent", TierRecent, &s))
	assert.True(t, qc.Get(ctx, "historical", TierHistorical, &s))
}

// failingStore simulates an unavailable cache backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) DeleteByPrefix(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestQueryCacheDegradesOnStoreFailure(t *testing.T) {
	qc := New(failingStore{}, DefaultTTLConfig())
	ctx := context.Background()

	// every operation is absorbed: miss, silent drop, zero removals
	var out string
	assert.False(t, qc.Get(ctx, "k", TierRecent, &out))
	assert.NotPanics(t, func() { qc.Set(ctx, "k", TierRecent, "v") })
	assert.Equal(t, 0, qc.Invalidate(ctx, "k"))
}

func TestQueryCacheUndecodableEntryIsMiss(t *testing.T) {
	store := NewMemoryStore()
	qc := New(store, DefaultTTLConfig())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("{not json"), time.Minute))

	var out map[string]string
	assert.False(t, qc.Get(ctx, "k", TierRecent, &out))
}
