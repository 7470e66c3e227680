package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache lookups per resource, labelled hit or miss
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"resource", "result"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"backend", "kind"}, // kind: encode, decode, write
	)

	// L1 stats published by the periodic collector
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_cache_entries",
			Help: "Number of entries held by the cache backend",
		},
		[]string{"backend"},
	)

	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_cache_capacity_bytes",
			Help: "Cache backend capacity in bytes",
		},
		[]string{"backend"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_requests_total",
			Help: "Total number of upstream catalog requests",
		},
		[]string{"outcome"}, // see ErrorCategory
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_request_duration_seconds",
			Help:    "Duration of upstream catalog requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	CharacterFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_character_fetch_failures_total",
			Help: "Character lookups skipped during film fan-out",
		},
	)

	// TokensIssued tracks the total number of JWT tokens issued
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_issued_total",
		Help: "The total number of JWT tokens issued",
	})

	// TokenVerifications tracks JWT token verification attempts
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_verifications_total",
		Help: "The total number of token verification attempts",
	}, []string{"status"}) // status: "success", "invalid", "expired"

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"}) // status: "success", "failed"

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// RecordCacheHit records a cache hit for the resource
func RecordCacheHit(resource string) {
	CacheRequests.WithLabelValues(resource, "hit").Inc()
}

// RecordCacheMiss records a cache miss for the resource
func RecordCacheMiss(resource string) {
	CacheRequests.WithLabelValues(resource, "miss").Inc()
}

// RecordCacheError records a cache backend error
func RecordCacheError(backend, kind string) {
	CacheErrors.WithLabelValues(backend, kind).Inc()
}

// UpdateCacheStats publishes backend size figures
func UpdateCacheStats(backend string, entries, capacity int64) {
	CacheEntries.WithLabelValues(backend).Set(float64(entries))
	CacheCapacity.WithLabelValues(backend).Set(float64(capacity))
}

// TimeUpstreamRequest returns a function that records the request outcome and duration
func TimeUpstreamRequest() func(category ErrorCategory) {
	timer := prometheus.NewTimer(UpstreamDuration)
	return func(category ErrorCategory) {
		timer.ObserveDuration()
		UpstreamRequests.WithLabelValues(string(category)).Inc()
	}
}

// RecordCharacterFetchFailure counts a character dropped from a fan-out
func RecordCharacterFetchFailure() {
	CharacterFetchFailures.Inc()
}

// IncrementTokensIssued increments the tokens issued counter
func IncrementTokensIssued() {
	TokensIssued.Inc()
}

// RecordTokenVerification records a token verification attempt
func RecordTokenVerification(status string) {
	TokenVerifications.WithLabelValues(status).Inc()
}

// RecordLoginAttempt records a login attempt
func RecordLoginAttempt(status string) {
	LoginAttempts.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records a served request
func RecordHTTPRequest(route, code string, seconds float64) {
	HTTPRequests.WithLabelValues(route, code).Inc()
	HTTPDuration.WithLabelValues(route).Observe(seconds)
}
