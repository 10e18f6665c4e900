// Package metrics exposes Prometheus collectors for the lfg server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/lfg/internal/middleware"
)

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds collectors registered on one registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	LobbyOperations  *prometheus.CounterVec
	AdvisorRequests  *prometheus.CounterVec
	EventSubscribers prometheus.Gauge
}

// New creates collectors and registers them on reg, or on a fresh registry
// when reg is nil
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		LobbyOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lobby_operations_total",
				Help: "Lobby registry operations by outcome",
			},
			[]string{"op", "outcome"}, // create|join|leave|delete
		),
		AdvisorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_requests_total",
				Help: "Lobby suggestions by outcome",
			},
			[]string{"outcome"},
		),
		EventSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "event_subscribers",
				Help: "Currently connected event stream clients",
			},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.LobbyOperations,
		m.AdvisorRequests,
		m.EventSubscribers,
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LobbyOperation counts one lobby operation
func (m *Metrics) LobbyOperation(op string, err error) {
	if m == nil {
		return
	}
	m.LobbyOperations.WithLabelValues(op, outcome(err)).Inc()
}

// AdvisorRequest counts one suggestion, labelled with its outcome
func (m *Metrics) AdvisorRequest(result string) {
	if m == nil {
		return
	}
	m.AdvisorRequests.WithLabelValues(result).Inc()
}

// SubscriberDelta adjusts the event subscriber gauge
func (m *Metrics) SubscriberDelta(delta int) {
	if m == nil {
		return
	}
	m.EventSubscribers.Add(float64(delta))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// Middleware records request counts and latency per route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		route := middleware.Route(r)
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.Status())).Inc()
		m.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
