// Package metrics exposes Prometheus instrumentation for solve runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "optimizer"

// Metrics holds the collectors of one process on a dedicated registry.
// A nil *Metrics records nothing and gathers nothing.
type Metrics struct {
	registry    *prometheus.Registry
	solves      *prometheus.CounterVec
	duration    prometheus.Histogram
	degenerate  *prometheus.CounterVec
	chartRender *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Number of solve runs by outcome status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent building and solving one instance.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		degenerate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_resources_total",
			Help:      "Number of runs in which no product consumed a resource.",
		}, []string{"resource"}),
		chartRender: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Number of rendered charts by image format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		m.solves,
		m.duration,
		m.degenerate,
		m.chartRender,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSolve records one finished solve.
func (m *Metrics) ObserveSolve(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveDegenerate records a resource that no product consumed.
func (m *Metrics) ObserveDegenerate(resource string) {
	if m == nil {
		return
	}
	m.degenerate.WithLabelValues(resource).Inc()
}

// ObserveChart records one rendered chart.
func (m *Metrics) ObserveChart(format string) {
	if m == nil {
		return
	}
	m.chartRender.WithLabelValues(format).Inc()
}

// Gather implements prometheus.Gatherer over the dedicated registry.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	if m == nil {
		return nil, nil
	}
	return m.registry.Gather()
}

// Handler serves Gather in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m, promhttp.HandlerOpts{Registry: m.registry})
}
