package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DatasetFetches  *prometheus.CounterVec
	Publishes       *prometheus.CounterVec
	PomodoroPhases  *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DatasetFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdash_dataset_fetches_total",
				Help: "Dataset fetches by source kind and outcome",
			},
			[]string{"source", "result"},
		),
		Publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdash_dataset_publishes_total",
				Help: "Dataset publish attempts by outcome",
			},
			[]string{"result"},
		),
		PomodoroPhases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdash_pomodoro_phases_total",
				Help: "Completed pomodoro phases by mode",
			},
			[]string{"mode"},
		),
	}

	m.registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.DatasetFetches, m.Publishes, m.PomodoroPhases)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFetch(source, result string) {
	if m == nil {
		return
	}
	m.DatasetFetches.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObservePublish(result string) {
	if m == nil {
		return
	}
	m.Publishes.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePomodoroPhase(mode string) {
	if m == nil {
		return
	}
	m.PomodoroPhases.WithLabelValues(mode).Inc()
}
