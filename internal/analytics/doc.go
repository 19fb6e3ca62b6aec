// Package analytics implements the aggregation engine behind the dashboard:
// per-entity rollups, time-bucketed series, derived rates, and the composite
// health score, fronted by a query cache.
//
// The Service façade is the only entry point external callers (API handlers)
// should use. It depends on a Source interface for raw records and degrades
// to uncached computation when the cache store is unavailable.
//
// Everything below the façade is deterministic: for a fixed input record
// set, aggregation produces identical output regardless of input ordering.
package analytics
