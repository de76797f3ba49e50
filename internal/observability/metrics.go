// Package observability groups the Prometheus instruments for the service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Requests          *prometheus.CounterVec
	RateLimitRejects  *prometheus.CounterVec
	ValidationRejects *prometheus.CounterVec
	ProviderLatency   prometheus.Histogram
	ProviderErrors    prometheus.Counter
	VisitCount        prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		RateLimitRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the sliding-window limiter.",
		}, []string{"endpoint"}),
		ValidationRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Messages rejected by input validation, by rule.",
		}, []string{"rule"}),
		ProviderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Latency of upstream chat completion calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
		}),
		ProviderErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Failed upstream chat completion calls.",
		}),
		VisitCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visit_count",
			Help:      "Last persisted visit counter value.",
		}),
	}
}

// The recording methods are nil-safe so handlers can run without
// metrics wired, e.g. in tests.

func (m *Metrics) RecordRequest(endpoint string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordRateLimited(endpoint string) {
	if m == nil {
		return
	}
	m.RateLimitRejects.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordValidationReject(rule string) {
	if m == nil {
		return
	}
	m.ValidationRejects.WithLabelValues(rule).Inc()
}

func (m *Metrics) ObserveProviderLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderLatency.Observe(d.Seconds())
}

func (m *Metrics) RecordProviderError() {
	if m == nil {
		return
	}
	m.ProviderErrors.Inc()
}

func (m *Metrics) SetVisitCount(n int64) {
	if m == nil {
		return
	}
	m.VisitCount.Set(float64(n))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
