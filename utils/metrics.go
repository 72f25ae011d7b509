package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps the Prometheus collectors used across the service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	resolvedSlots   prometheus.Histogram
	transitions     *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	resolveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availability_resolve_duration_seconds",
		Help:    "Time spent resolving bookable slots",
		Buckets: prometheus.DefBuckets,
	}, []string{"emergency"})

	resolvedSlots := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_resolved_slots",
		Help:    "Number of slots returned per resolve call",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Booking status transition attempts",
	}, []string{"from", "to", "result"})

	registry.MustRegister(requestDuration, requestTotal, resolveDuration, resolvedSlots, transitions)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		resolveDuration: resolveDuration,
		resolvedSlots:   resolvedSlots,
		transitions:     transitions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *Metrics) ObserveResolve(emergency bool, slots int, d time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.WithLabelValues(strconv.FormatBool(emergency)).Observe(d.Seconds())
	m.resolvedSlots.Observe(float64(slots))
}

func (m *Metrics) CountTransition(from, to string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(AsAppError(err).Kind)
	}
	m.transitions.WithLabelValues(from, to, result).Inc()
}
