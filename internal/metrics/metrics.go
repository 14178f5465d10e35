// Package metrics provides Prometheus metrics for the card proxy.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardproxy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardproxy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardproxy_cache_hits_total",
			Help: "Cache hits by tier",
		},
		[]string{"tier"}, // "memory", "redis"
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardproxy_cache_misses_total",
			Help: "Cache misses across all tiers",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardproxy_cache_errors_total",
			Help: "Cache operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardproxy_cache_entries",
			Help: "Live in-process cache entries",
		},
	)

	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardproxy_provider_requests_total",
			Help: "Upstream provider requests by outcome",
		},
		[]string{"outcome"}, // "ok", "http_error", "transport_error", "decode_error"
	)

	ProviderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardproxy_provider_latency_seconds",
			Help:    "Upstream provider request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Query Metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardproxy_queries_total",
			Help: "Search and card queries by source",
		},
		[]string{"kind", "source"}, // kind: "search", "card"; source: "cache", "demo", "provider", "failed", "empty"
	)

	SearchResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardproxy_search_results",
			Help:    "Number of results returned per uncached search",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		},
	)
)
