package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts client API calls by method, route and status.
	// Status is "error" when no response was received.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerhub_api_requests_total",
		Help: "Total number of API calls made by the client",
	}, []string{"method", "route", "status"})

	// APIRequestLatency records client API call latency.
	APIRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamerhub_api_request_latency_seconds",
		Help:    "Client API call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SupersededLoads counts responses discarded because a newer load was issued.
	SupersededLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerhub_superseded_loads_total",
		Help: "Total number of list loads discarded as stale",
	}, []string{"controller"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamerhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheLookups counts cache-aside lookups by key prefix and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerhub_cache_lookups_total",
		Help: "Total number of cache lookups by prefix and result",
	}, []string{"prefix", "result"})
)

// ObserveAPICall records one client API call. status 0 means transport failure.
func ObserveAPICall(method, route string, status int, start time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(method, route, label).Inc()
	APIRequestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
