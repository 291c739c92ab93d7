package metrics

import "github.com/prometheus/client_golang/prometheus"

// Terminology API, cache and aggregation metrics.
var (
	TermdatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "termdeck",
			Name:      "termdat_requests_total",
			Help:      "Total number of terminology API requests",
		},
		[]string{"endpoint", "status"},
	)

	TermdatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "termdeck",
			Name:      "termdat_request_duration_seconds",
			Help:      "Terminology API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "termdeck",
			Name:      "cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"kind", "result"}, // kind: collections/search, result: hit/miss
	)

	AggregationPagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "termdeck",
			Name:      "aggregation_pages_total",
			Help:      "Search pages fetched by the pagination aggregator",
		},
	)

	AggregationStaleRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "termdeck",
			Name:      "aggregation_stale_runs_total",
			Help:      "Aggregation runs discarded because a newer filter set superseded them",
		},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers the terminology API, cache and aggregation metrics.
// Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(TermdatRequestsTotal)
	prometheus.MustRegister(TermdatRequestDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(AggregationPagesTotal)
	prometheus.MustRegister(AggregationStaleRunsTotal)
	upstreamMetricsRegistered = true
}
