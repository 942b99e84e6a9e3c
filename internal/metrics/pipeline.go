package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution pipeline Prometheus metrics.
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poidex",
			Name:      "resolutions_total",
			Help:      "Total number of city resolutions by outcome",
		},
		[]string{"outcome"}, // cache_hit, resolved, not_found, empty_input, geocode_error, query_error, fetch_error
	)

	ResolutionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poidex",
			Name:      "resolution_cache_total",
			Help:      "Resolution cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poidex",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream service requests",
		},
		[]string{"service", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poidex",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream service request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service"},
	)

	FetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poidex",
			Name:      "fetch_attempts_total",
			Help:      "Total spatial-query fetch attempts by result",
		},
		[]string{"result"}, // "success" / "failure"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(ResolutionCacheTotal)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(FetchAttemptsTotal)
	pipelineMetricsRegistered = true
}
