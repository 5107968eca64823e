package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	appointmentsBooked *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	rateLimited        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		appointmentsBooked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointments_booked_total",
				Help: "Booking attempts by result",
			},
			[]string{"result"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointment_status_transitions_total",
				Help: "Applied status changes by target status",
			},
			[]string{"status"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notification deliveries by result",
			},
			[]string{"result"},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.appointmentsBooked,
		m.statusTransitions,
		m.notifications,
		m.rateLimited,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// BookingResult is "created" or an error code such as "slot_taken".
func (m *Metrics) BookingResult(result string) {
	if m == nil {
		return
	}
	m.appointmentsBooked.WithLabelValues(result).Inc()
}

func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) NotificationResult(ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
