package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailpulse_aggregation_records_skipped_total",
		Help: "Raw records dropped during aggregation because of a missing entity id.",
	})

	aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailpulse_aggregations_total",
		Help: "Aggregation computations by operation (cache misses and uncached calls).",
	}, []string{"op"})
)
