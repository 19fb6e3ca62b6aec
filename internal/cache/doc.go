// Package cache provides the query cache in front of the analytics engine:
// deterministic key derivation from query shape, TTL tiers, and get/set/
// invalidate over a pluggable byte store (Redis in production, an in-memory
// map in tests).
//
// Caching here is a performance optimization, never a correctness
// dependency: any store failure degrades to a miss (or a no-op on write)
// and the caller recomputes.
package cache
