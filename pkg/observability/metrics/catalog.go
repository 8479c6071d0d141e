package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// catalogQueryDuration tracks catalog store operation duration in seconds.
	// Labels: resource, operation
	catalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Catalog store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "operation"},
	)

	// catalogQueriesTotal counts catalog store operations by outcome.
	// Labels: resource, operation, outcome (ok, not_found, invalid, unavailable)
	catalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Total number of catalog store operations",
		},
		[]string{"resource", "operation", "outcome"},
	)
)

// RecordCatalogQuery records one catalog store operation.
func RecordCatalogQuery(resource, operation, outcome string, duration time.Duration) {
	catalogQueryDuration.WithLabelValues(resource, operation).Observe(duration.Seconds())
	catalogQueriesTotal.WithLabelValues(resource, operation, outcome).Inc()
}
