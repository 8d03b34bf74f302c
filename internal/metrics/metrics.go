// Package metrics exposes Prometheus collectors for generation runs and the
// HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Resanso/smart-office/internal/simulation"
)

// Metrics holds the generation and HTTP collectors on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	readingsTotal     *prometheus.CounterVec
	instantsTotal     prometheus.Counter
	generationSeconds prometheus.Histogram
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartoffice_readings_generated_total",
			Help: "Simulated readings produced, by sensor type.",
		}, []string{"tipo"}),
		instantsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartoffice_instants_generated_total",
			Help: "Time grid instants walked by the generator.",
		}),
		generationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartoffice_generation_duration_seconds",
			Help:    "Wall time of a full dataset generation.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.readingsTotal,
		m.instantsTotal,
		m.generationSeconds,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// OnGenerated records a completed run.
func (m *Metrics) OnGenerated(stats simulation.RunStats) {
	if m == nil {
		return
	}
	m.instantsTotal.Add(float64(stats.Instants))
	for _, t := range simulation.SensorTypes() {
		m.readingsTotal.WithLabelValues(t.String()).Add(float64(stats.Readings[t]))
	}
	m.generationSeconds.Observe(stats.Duration.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
