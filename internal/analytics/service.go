package analytics

import (
	"context"
	"time"

	"github.com/ignite/mailpulse/internal/cache"
	"github.com/ignite/mailpulse/internal/domain"
	"github.com/ignite/mailpulse/internal/pkg/logger"
)

// Source fetches raw per-day records from the authoritative store. The
// engine treats the data as read-only and tolerates malformed entries; it
// never validates business rules on it.
type Source interface {
	FetchRecords(ctx context.Context, kind domain.EntityKind, ids []string, rng domain.DateRange) ([]domain.RawRecord, error)
}

// WarmupSource reports warmup progress (0-100) per entity id. Entities
// absent from the map are treated as fully warmed.
type WarmupSource interface {
	Progress(ctx context.Context, kind domain.EntityKind, ids []string) (map[string]int, error)
}

// Service is the aggregation façade consumed by API handlers. Each call is
// a pure function of its inputs plus one cache lookup: check cache, on miss
// fetch raw records, aggregate, store, return. Reads never mutate raw data.
// Safe for concurrent use; concurrent misses on the same key recompute
// redundantly rather than coordinate, which is cheap and idempotent.
type Service struct {
	source Source
	warmup WarmupSource
	cache  *cache.QueryCache
	agg    *Aggregator
	score  ScoreConfig
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithWarmupSource wires a warmup progress lookup into scoring.
func WithWarmupSource(ws WarmupSource) Option {
	return func(s *Service) { s.warmup = ws }
}

// WithScoreConfig overrides the default health score constants.
func WithScoreConfig(cfg ScoreConfig) Option {
	return func(s *Service) { s.score = cfg }
}

// NewService creates the façade. qc may be nil, in which case every call
// computes uncached (useful for tests and for running without Redis).
func NewService(source Source, qc *cache.QueryCache, opts ...Option) *Service {
	s := &Service{
		source: source,
		cache:  qc,
		score:  DefaultScoreConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.agg = NewAggregator(s.score)
	return s
}

// Query describes one aggregation request. IDs may be empty (all entities
// of the kind); Range bounds are inclusive ISO dates and either may be
// empty. Filters are opaque extra dimensions that participate in cache key
// derivation.
type Query struct {
	Kind        domain.EntityKind
	IDs         []string
	Range       domain.DateRange
	Granularity domain.Granularity
	Filters     map[string]string
}

// AggregateByEntity returns one AggregateResult per entity with records in
// range, ordered by UpdatedAt descending then entity id.
func (s *Service) AggregateByEntity(ctx context.Context, q Query) ([]domain.AggregateResult, error) {
	if err := validateQuery(q, false); err != nil {
		return nil, err
	}

	tier := cache.TierFor(q.Range, time.Now())
	key := cache.QueryKey("aggregate", q.Kind, q.IDs, q.Range, q.Filters)

	var cached []domain.AggregateResult
	if s.cache != nil && s.cache.Get(ctx, key, tier, &cached) {
		return cached, nil
	}

	records, err := s.source.FetchRecords(ctx, q.Kind, q.IDs, q.Range)
	if err != nil {
		return nil, &UpstreamError{Op: "aggregate", Err: err}
	}
	aggregations.WithLabelValues("aggregate").Inc()

	results := s.agg.GroupByEntity(records, s.warmupProgress(ctx, q.Kind, q.IDs))
	if s.cache != nil {
		s.cache.Set(ctx, key, tier, results)
	}
	return results, nil
}

// TimeSeries returns the bucketed series for the query's granularity,
// sorted ascending by bucket key.
func (s *Service) TimeSeries(ctx context.Context, q Query) ([]domain.TimeSeriesPoint, error) {
	if err := validateQuery(q, true); err != nil {
		return nil, err
	}

	// Granularity changes the result shape, so it must be part of the key.
	filters := map[string]string{"granularity": string(q.Granularity)}
	for k, v := range q.Filters {
		filters[k] = v
	}

	tier := cache.TierFor(q.Range, time.Now())
	key := cache.QueryKey("timeseries", q.Kind, q.IDs, q.Range, filters)

	var cached []domain.TimeSeriesPoint
	if s.cache != nil && s.cache.Get(ctx, key, tier, &cached) {
		return cached, nil
	}

	records, err := s.source.FetchRecords(ctx, q.Kind, q.IDs, q.Range)
	if err != nil {
		return nil, &UpstreamError{Op: "timeseries", Err: err}
	}
	aggregations.WithLabelValues("timeseries").Inc()

	points := s.agg.GroupByTime(records, q.Granularity)
	if s.cache != nil {
		s.cache.Set(ctx, key, tier, points)
	}
	return points, nil
}

// EntitySummary returns the rollup for a single entity, or ErrNoData when
// the entity has no records in range. Empty results are not cached so a
// freshly ingested entity shows up immediately.
func (s *Service) EntitySummary(ctx context.Context, kind domain.EntityKind, id string, rng domain.DateRange) (*domain.AggregateResult, error) {
	q := Query{Kind: kind, IDs: []string{id}, Range: rng}
	if err := validateQuery(q, false); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &ValidationError{Field: "entity_id", Reason: "must not be empty"}
	}

	tier := cache.TierFor(rng, time.Now())
	key := cache.EntityKey("summary", kind, id, rng, nil)

	var cached domain.AggregateResult
	if s.cache != nil && s.cache.Get(ctx, key, tier, &cached) {
		return &cached, nil
	}

	records, err := s.source.FetchRecords(ctx, kind, []string{id}, rng)
	if err != nil {
		return nil, &UpstreamError{Op: "summary", Err: err}
	}
	aggregations.WithLabelValues("summary").Inc()

	results := s.agg.GroupByEntity(records, s.warmupProgress(ctx, kind, []string{id}))
	if len(results) == 0 {
		return nil, ErrNoData
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, tier, results[0])
	}
	return &results[0], nil
}

// InvalidateEntity drops every cached result that could include the entity:
// its own entries plus all multi-entity queries for the kind. Called by the
// ingestion side whenever an entity's raw metrics are mutated.
func (s *Service) InvalidateEntity(ctx context.Context, kind domain.EntityKind, id string) int {
	if s.cache == nil {
		return 0
	}
	n := s.cache.Invalidate(ctx, cache.EntityPrefix(kind, id))
	n += s.cache.Invalidate(ctx, cache.QueryPrefix(kind))
	logger.Info("invalidated cached aggregates", "kind", string(kind), "entity_id", id, "removed", n)
	return n
}

// ClearScope drops all cached results for a kind, or for the entire
// namespace when kind is empty.
func (s *Service) ClearScope(ctx context.Context, kind domain.EntityKind) int {
	if s.cache == nil {
		return 0
	}
	prefix := cache.Namespace
	if kind != "" {
		prefix = cache.KindPrefix(kind)
	}
	return s.cache.Invalidate(ctx, prefix)
}

// warmupProgress consults the warmup source when present. Lookup failures
// downgrade to "fully warmed" defaults; warmup flavor is never worth
// failing an aggregation over.
func (s *Service) warmupProgress(ctx context.Context, kind domain.EntityKind, ids []string) map[string]int {
	if s.warmup == nil {
		return nil
	}
	progress, err := s.warmup.Progress(ctx, kind, ids)
	if err != nil {
		logger.Warn("warmup progress lookup failed, assuming fully warmed", "kind", string(kind), "error", err.Error())
		return nil
	}
	return progress
}

func validateQuery(q Query, needGranularity bool) error {
	if !q.Kind.Valid() {
		return &ValidationError{Field: "entity_kind", Reason: "must be mailbox, domain, or campaign"}
	}
	if needGranularity && !q.Granularity.Valid() {
		return &ValidationError{Field: "granularity", Reason: "must be day, week, or month"}
	}

	var start, end time.Time
	if q.Range.Start != "" {
		t, err := time.Parse("2006-01-02", q.Range.Start)
		if err != nil {
			return &ValidationError{Field: "start", Reason: "not an ISO date (YYYY-MM-DD)"}
		}
		start = t
	}
	if q.Range.End != "" {
		t, err := time.Parse("2006-01-02", q.Range.End)
		if err != nil {
			return &ValidationError{Field: "end", Reason: "not an ISO date (YYYY-MM-DD)"}
		}
		end = t
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return &ValidationError{Field: "date_range", Reason: "start is after end"}
	}
	return nil
}
