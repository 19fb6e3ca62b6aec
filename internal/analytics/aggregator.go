package analytics

import (
	"sort"
	"strings"

	"github.com/ignite/mailpulse/internal/domain"
	"github.com/ignite/mailpulse/internal/pkg/logger"
)

// fullyWarmed is assumed for entities with no warmup data: established
// mailboxes and domains predate warmup tracking.
const fullyWarmed = 100

// Aggregator reduces raw per-day records into per-entity rollups and
// time-bucketed series. It is stateless apart from the score configuration
// and safe for concurrent use.
type Aggregator struct {
	score ScoreConfig
}

// NewAggregator creates an aggregator with the given score configuration.
func NewAggregator(score ScoreConfig) *Aggregator {
	return &Aggregator{score: score}
}

// GroupByEntity partitions records by entity id, sums each group's metrics,
// and derives rates and a health score per entity. Descriptive fields come
// from the group's latest-dated record; UpdatedAt is the maximum across the
// group. warmup maps entity id → warmup progress (0-100) and may be nil.
//
// Output ordering is UpdatedAt descending with ties broken by entity id
// ascending, so identical input sets produce identical output regardless of
// input order. Records with a blank entity id are skipped with a warning;
// an empty input yields an empty (non-nil) result.
func (a *Aggregator) GroupByEntity(records []domain.RawRecord, warmup map[string]int) []domain.AggregateResult {
	groups := make(map[string][]domain.RawRecord)
	for _, rec := range records {
		id := strings.TrimSpace(rec.EntityID)
		if id == "" {
			recordsSkipped.Inc()
			logger.Warn("skipping record with missing entity id",
				"date", rec.Date, "name", rec.Name)
			continue
		}
		groups[id] = append(groups[id], rec)
	}

	results := make([]domain.AggregateResult, 0, len(groups))
	for id, group := range groups {
		// Date-ascending order makes "latest record" well defined even
		// when the input arrives shuffled. Further tie-breaks keep the
		// reduction deterministic for duplicate dates.
		sort.Slice(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date < group[j].Date
			}
			if !group[i].UpdatedAt.Equal(group[j].UpdatedAt) {
				return group[i].UpdatedAt.Before(group[j].UpdatedAt)
			}
			return group[i].Name < group[j].Name
		})

		var sum domain.MetricsVector
		latest := group[len(group)-1]
		updatedAt := group[0].UpdatedAt
		for _, rec := range group {
			sum = sum.Add(rec.Metrics)
			if rec.UpdatedAt.After(updatedAt) {
				updatedAt = rec.UpdatedAt
			}
		}

		progress := fullyWarmed
		if p, ok := warmup[id]; ok {
			progress = p
		}

		rates := Rates(sum)
		results = append(results, domain.AggregateResult{
			EntityID:    id,
			Name:        latest.Name,
			Metrics:     sum,
			Rates:       rates,
			HealthScore: HealthScore(rates, progress, nil, a.score),
			UpdatedAt:   updatedAt,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].UpdatedAt.Equal(results[j].UpdatedAt) {
			return results[i].UpdatedAt.After(results[j].UpdatedAt)
		}
		return results[i].EntityID < results[j].EntityID
	})
	return results
}

// GroupByTime partitions records into time buckets for the given granularity
// and sums each bucket's metrics. Every record lands in exactly one bucket;
// unparseable dates go to the sentinel "unknown" bucket. Points are emitted
// ascending by bucket key (the unknown bucket sorts last). Records with a
// blank entity id are skipped, mirroring GroupByEntity.
func (a *Aggregator) GroupByTime(records []domain.RawRecord, g domain.Granularity) []domain.TimeSeriesPoint {
	buckets := make(map[string]domain.MetricsVector)
	for _, rec := range records {
		if strings.TrimSpace(rec.EntityID) == "" {
			recordsSkipped.Inc()
			logger.Warn("skipping record with missing entity id",
				"date", rec.Date, "name", rec.Name)
			continue
		}
		key := BucketKey(rec.Date, g)
		buckets[key] = buckets[key].Add(rec.Metrics)
	}

	points := make([]domain.TimeSeriesPoint, 0, len(buckets))
	for key, sum := range buckets {
		points = append(points, domain.TimeSeriesPoint{
			Key:     key,
			Label:   BucketLabel(key, g),
			Metrics: sum,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}
