// Package metrics provides Prometheus metrics for the recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Recommendation pipeline
	recommendationsServed *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	expansionArticles     prometheus.Counter
	internalFailures      prometheus.Counter

	// Catalog snapshot
	catalogRefreshes       prometheus.Counter
	catalogRefreshFailures prometheus.Counter
	catalogSize            prometheus.Gauge
	catalogCacheHits       prometheus.Counter
	catalogCacheMisses     prometheus.Counter

	// Profiles
	profileBuilds    prometheus.Counter
	profileCacheHits prometheus.Counter
	profileCacheMiss prometheus.Counter
	profileCacheSize prometheus.Gauge

	// Upstream sources
	upstreamRequestDuration *prometheus.HistogramVec
	upstreamErrors          *prometheus.CounterVec

	// Cache administration
	cacheClears prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pulse",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.recommendationsServed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Recommendation responses by ranking strategy.",
	}, []string{"strategy"})

	m.recommendationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_latency_ms",
		Help:      "End-to-end recommendation computation latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.expansionArticles = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "expansion_articles_total",
		Help:      "Articles contributed by collaborative expansion.",
	})

	m.internalFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "internal_failures_total",
		Help:      "Unexpected internal computation failures.",
	})

	m.catalogRefreshes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_refreshes_total",
		Help:      "Successful catalog snapshot refreshes.",
	})

	m.catalogRefreshFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_refresh_failures_total",
		Help:      "Catalog fetches that failed and fell back to a stale snapshot.",
	})

	m.catalogSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Articles in the current catalog snapshot.",
	})

	m.catalogCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_hits_total",
		Help:      "Catalog reads served from a fresh snapshot.",
	})

	m.catalogCacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_misses_total",
		Help:      "Catalog reads that required a refresh.",
	})

	m.profileBuilds = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_builds_total",
		Help:      "User profiles assembled from interaction history.",
	})

	m.profileCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_hits_total",
		Help:      "Profile reads served from the cache.",
	})

	m.profileCacheMiss = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_misses_total",
		Help:      "Profile reads that required a rebuild.",
	})

	m.profileCacheSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_size",
		Help:      "Profiles currently memoized.",
	})

	m.upstreamRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_ms",
		Help:      "Upstream source request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.upstreamErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_errors_total",
		Help:      "Upstream source request failures by source.",
	}, []string{"source"})

	m.cacheClears = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_clears_total",
		Help:      "Explicit cache-clear operations.",
	})
}

// Package-level helpers against the global manager.

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
	}
}

// RecordRecommendation counts a served recommendation by strategy.
func RecordRecommendation(strategy string) {
	if globalManager.enabled {
		globalManager.recommendationsServed.WithLabelValues(strategy).Inc()
	}
}

// RecordRecommendationLatency observes one recommendation latency.
func RecordRecommendationLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.recommendationLatency.Observe(latencyMs)
	}
}

// RecordExpansionArticles counts articles produced by collaborative expansion.
func RecordExpansionArticles(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.expansionArticles.Add(float64(n))
	}
}

// RecordInternalFailure counts an unexpected computation failure.
func RecordInternalFailure() {
	if globalManager.enabled {
		globalManager.internalFailures.Inc()
	}
}

// RecordCatalogRefresh counts a successful snapshot refresh.
func RecordCatalogRefresh() {
	if globalManager.enabled {
		globalManager.catalogRefreshes.Inc()
	}
}

// RecordCatalogRefreshFailure counts a failed snapshot refresh.
func RecordCatalogRefreshFailure() {
	if globalManager.enabled {
		globalManager.catalogRefreshFailures.Inc()
	}
}

// UpdateCatalogSize sets the current snapshot size.
func UpdateCatalogSize(n int) {
	if globalManager.enabled {
		globalManager.catalogSize.Set(float64(n))
	}
}

// RecordCatalogCacheHit counts a fresh-snapshot read.
func RecordCatalogCacheHit() {
	if globalManager.enabled {
		globalManager.catalogCacheHits.Inc()
	}
}

// RecordCatalogCacheMiss counts a read that required a refresh.
func RecordCatalogCacheMiss() {
	if globalManager.enabled {
		globalManager.catalogCacheMisses.Inc()
	}
}

// RecordProfileBuild counts an assembled profile.
func RecordProfileBuild() {
	if globalManager.enabled {
		globalManager.profileBuilds.Inc()
	}
}

// RecordProfileCacheHit counts a cached profile read.
func RecordProfileCacheHit() {
	if globalManager.enabled {
		globalManager.profileCacheHits.Inc()
	}
}

// RecordProfileCacheMiss counts a profile read that required a rebuild.
func RecordProfileCacheMiss() {
	if globalManager.enabled {
		globalManager.profileCacheMiss.Inc()
	}
}

// UpdateProfileCacheSize sets the number of memoized profiles.
func UpdateProfileCacheSize(n int) {
	if globalManager.enabled {
		globalManager.profileCacheSize.Set(float64(n))
	}
}

// RecordUpstreamRequest observes one upstream request.
func RecordUpstreamRequest(source string, durationMs float64) {
	if globalManager.enabled {
		globalManager.upstreamRequestDuration.WithLabelValues(source).Observe(durationMs)
	}
}

// RecordUpstreamError counts one upstream request failure.
func RecordUpstreamError(source string) {
	if globalManager.enabled {
		globalManager.upstreamErrors.WithLabelValues(source).Inc()
	}
}

// RecordCacheClear counts an explicit cache-clear operation.
func RecordCacheClear() {
	if globalManager.enabled {
		globalManager.cacheClears.Inc()
	}
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
