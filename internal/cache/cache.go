package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ignite/mailpulse/internal/domain"
	"github.com/ignite/mailpulse/internal/pkg/logger"
)

// Tier names a cache-freshness policy. Queries over still-moving data get
// the short "recent" TTL; closed date ranges cannot change and keep their
// entries around far longer.
type Tier string

const (
	TierRecent     Tier = "recent"
	TierHistorical Tier = "historical"
)

// TTLConfig maps tiers to durations.
type TTLConfig struct {
	Recent     time.Duration `yaml:"recent"`
	Historical time.Duration `yaml:"historical"`
}

// DefaultTTLConfig returns the standard tier durations.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Recent:     5 * time.Minute,
		Historical: 6 * time.Hour,
	}
}

func (c TTLConfig) ttl(tier Tier) time.Duration {
	if tier == TierHistorical {
		return c.Historical
	}
	return c.Recent
}

// TierFor classifies a query's date range. A range that ends strictly
// before today (in UTC) is closed — its aggregates cannot change — so it
// gets the historical tier. Open-ended or current ranges are recent.
func TierFor(rng domain.DateRange, now time.Time) Tier {
	if rng.End == "" {
		return TierRecent
	}
	end, err := time.Parse("2006-01-02", rng.End)
	if err != nil {
		return TierRecent
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if end.Before(today) {
		return TierHistorical
	}
	return TierRecent
}

// QueryCache is the TTL-tiered JSON cache in front of the aggregation
// engine. It owns its entries exclusively: payloads are replaced wholesale,
// never patched in place. Store failures are absorbed — a broken cache
// means recomputation, never a failed request.
type QueryCache struct {
	store Store
	ttl   TTLConfig
}

// New creates a QueryCache over the given store.
func New(store Store, ttl TTLConfig) *QueryCache {
	if ttl.Recent <= 0 || ttl.Historical <= 0 {
		ttl = DefaultTTLConfig()
	}
	return &QueryCache{store: store, ttl: ttl}
}

// Get loads the payload for key into dst. It returns false on a miss, an
// expired entry, a store failure, or an undecodable payload — all of which
// the caller treats identically: recompute.
func (c *QueryCache) Get(ctx context.Context, key string, tier Tier, dst interface{}) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		storeErrors.Inc()
		logger.Warn("cache get failed, degrading to pass-through", "key", key, "error", err.Error())
		return false
	}
	if data == nil {
		misses.WithLabelValues(string(tier)).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		storeErrors.Inc()
		logger.Warn("cache entry undecodable, treating as miss", "key", key, "error", err.Error())
		return false
	}
	hits.WithLabelValues(string(tier)).Inc()
	return true
}

// Set stores val under key with the tier's TTL. Failures are logged and
// swallowed; the computed result is already in hand.
func (c *QueryCache) Set(ctx context.Context, key string, tier Tier, val interface{}) {
	data, err := json.Marshal(val)
	if err != nil {
		storeErrors.Inc()
		logger.Error("cache payload marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl.ttl(tier)); err != nil {
		storeErrors.Inc()
		logger.Warn("cache set failed, result served uncached", "key", key, "error", err.Error())
	}
}

// Invalidate removes all entries under prefix and returns how many went.
// Store failures count as zero removals; stale entries will still age out
// via their TTL.
func (c *QueryCache) Invalidate(ctx context.Context, prefix string) int {
	n, err := c.store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		storeErrors.Inc()
		logger.Warn("cache invalidation failed", "prefix", prefix, "error", err.Error())
	}
	if n > 0 {
		invalidations.Add(float64(n))
	}
	return n
}
