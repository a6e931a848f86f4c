// Package metrics holds the Prometheus collectors of the client cache and the record server.
// All methods are safe to call on a nil receiver, so metrics stay optional for callers.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jobcache"

// CacheMetrics counts cache and synchronization events per collection
type CacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	rollbacks     *prometheus.CounterVec
	coalesced     *prometheus.CounterVec
}

// NewCacheMetrics creates cache collectors and registers them on reg
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Collection reads served from the local store without a remote fetch.",
		}, []string{"collection"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Collection reads that required a remote fetch.",
		}, []string{"collection"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "remote_fetches_total",
			Help:      "Remote list calls actually executed.",
		}, []string{"collection"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetch_failures_total",
			Help:      "Fetches that fell back to cached data.",
		}, []string{"collection"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimistic",
			Name:      "rollbacks_total",
			Help:      "Optimistic updates rolled back after a failed mutation.",
		}, []string{"collection", "operation"}),
		coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coalesce",
			Name:      "shared_total",
			Help:      "Callers that received the result of a request issued by another caller.",
		}, []string{"key"}),
	}

	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.fetches, m.fetchFailures, m.rollbacks, m.coalesced)
	}

	return m
}

func (m *CacheMetrics) Hit(collection string) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(collection).Inc()
}

func (m *CacheMetrics) Miss(collection string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(collection).Inc()
}

func (m *CacheMetrics) RemoteFetch(collection string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(collection).Inc()
}

func (m *CacheMetrics) FetchFailed(collection string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(collection).Inc()
}

func (m *CacheMetrics) Rollback(collection, operation string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(collection, operation).Inc()
}

func (m *CacheMetrics) Shared(key string) {
	if m == nil {
		return
	}
	m.coalesced.WithLabelValues(key).Inc()
}

// HTTPMetrics instruments the record server
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates HTTP collectors and registers them on reg
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}

	return m
}

// Observe records one finished request
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
