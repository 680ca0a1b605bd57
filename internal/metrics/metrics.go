// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginRateLimited        = "rate_limited"
	LoginError              = "error"
)

// Reset token events.
const (
	ResetTokenIssued   = "issued"
	ResetTokenConsumed = "consumed"
	ResetTokenRejected = "rejected"
)

// HTTPRequests counts served requests by route pattern and status.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quill_http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration observes request latency by route pattern.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "quill_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// LoginAttempts counts login attempts by outcome.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quill_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"outcome"},
)

// ResetTokens counts password reset token lifecycle events.
var ResetTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quill_reset_tokens_total",
		Help: "Total number of password reset token events",
	},
	[]string{"event"},
)

// SweptEntries counts expired cache rows removed by the background sweeper.
var SweptEntries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quill_cache_swept_entries_total",
		Help: "Total number of expired cache entries removed",
	},
	[]string{"kind"},
)

// RegisterMetrics registers every collector with reg. Panics on duplicate
// registration, following prometheus convention.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(ResetTokens)
	reg.MustRegister(SweptEntries)
}

// NewRegistry returns a registry holding the runtime collectors and every
// collector of this package.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	RegisterMetrics(registry)
	return registry
}

// Handler serves the registry in the prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordLoginAttempt(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func RecordResetToken(event string) {
	ResetTokens.WithLabelValues(event).Inc()
}

func RecordSwept(kind string, n int) {
	if n > 0 {
		SweptEntries.WithLabelValues(kind).Add(float64(n))
	}
}
