// Package metrics provides Prometheus collectors for outbound provider calls and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for outbound calls.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExternalCalls        *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
	PriceFallbacks       *prometheus.CounterVec
	HolderPagesFetched   prometheus.Counter
	HoldersScanned       prometheus.Counter

	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "partners_lounge"
	}
	factory := promauto.With(reg)

	return &Metrics{
		ExternalCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Outbound calls to indexer and price providers by outcome",
		}, []string{"provider", "operation", "outcome"}),
		ExternalCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_duration_seconds",
			Help:      "Latency of outbound provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		PriceFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prices",
			Name:      "zero_fallbacks_total",
			Help:      "Price lookups that degraded to a zero price",
		}, []string{"provider"}),
		HolderPagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "pages_fetched_total",
			Help:      "Token-account pages fetched from the indexer",
		}),
		HoldersScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "accounts_scanned_total",
			Help:      "Token accounts scanned before threshold filtering",
		}),
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP API requests by route and status",
		}, []string{"route", "status"}),
		APIRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveExternalCall records one outbound call.
func (m *Metrics) ObserveExternalCall(provider, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExternalCalls.WithLabelValues(provider, operation, outcome).Inc()
	m.ExternalCallDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// IncPriceFallback counts a price lookup that returned zero after failing.
func (m *Metrics) IncPriceFallback(provider string) {
	if m == nil {
		return
	}
	m.PriceFallbacks.WithLabelValues(provider).Inc()
}

// ObserveHolderPage records one fetched token-account page.
func (m *Metrics) ObserveHolderPage(accounts int) {
	if m == nil {
		return
	}
	m.HolderPagesFetched.Inc()
	m.HoldersScanned.Add(float64(accounts))
}

// ObserveAPIRequest records one served HTTP request.
func (m *Metrics) ObserveAPIRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(route, status).Inc()
	m.APIRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
