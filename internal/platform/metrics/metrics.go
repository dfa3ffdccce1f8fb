// Package metrics owns the Prometheus registry exposed on /metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	contractsv1 "bibliotheque/contracts/gen/events/v1"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bibliotheque"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec
	loanStatus   *prometheus.GaugeVec
	sweeps       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_events_total",
			Help:      "Workflow events relayed from the outboxes, by event type",
		}, []string{"event_type"}),
		loanStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_loans",
			Help:      "Open loans by status at the last expiry sweep",
		}, []string{"status"}),
		sweeps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_sweeps_total",
			Help:      "Completed loan expiry sweeps",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency. The route label is the
// ServeMux pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := httpsnoop.CaptureMetrics(next, w, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(captured.Code)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(captured.Duration.Seconds())
	})
}

// ObserveEvent is a bus handler counting relayed events.
func (m *Metrics) ObserveEvent(_ context.Context, event contractsv1.Envelope) error {
	m.events.WithLabelValues(event.EventType).Inc()
	return nil
}

// SetLoanStatuses replaces the open loan gauges with the latest sweep counts.
func (m *Metrics) SetLoanStatuses(counts map[string]int) {
	m.loanStatus.Reset()
	for status, count := range counts {
		m.loanStatus.WithLabelValues(status).Set(float64(count))
	}
	m.sweeps.Inc()
}
