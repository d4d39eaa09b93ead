// Package metrics exposes Prometheus collectors for the quality engine
// and the derived-variable service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for the service.
type Metrics struct {
	registry *prometheus.Registry

	CheckRuns          prometheus.Counter
	CheckRunDuration   prometheus.Histogram
	IssuesFound        *prometheus.CounterVec
	RecordsChecked     prometheus.Counter
	VariablesGenerated prometheus.Counter
	FormulaFailures    prometheus.Counter
}

// New creates a Metrics instance with its own registry. Go runtime and
// process collectors are included.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: registry,
		CheckRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "epiqc",
			Subsystem: "quality",
			Name:      "check_runs_total",
			Help:      "Number of quality check runs executed.",
		}),
		CheckRunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "epiqc",
			Subsystem: "quality",
			Name:      "check_run_duration_seconds",
			Help:      "Duration of quality check runs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		IssuesFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epiqc",
			Subsystem: "quality",
			Name:      "issues_found_total",
			Help:      "Issues found, partitioned by category and severity.",
		}, []string{"category", "severity"}),
		RecordsChecked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "epiqc",
			Subsystem: "quality",
			Name:      "records_checked_total",
			Help:      "Records processed by quality check runs.",
		}),
		VariablesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "epiqc",
			Subsystem: "derive",
			Name:      "variables_generated_total",
			Help:      "Derived variable generation runs completed.",
		}),
		FormulaFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "epiqc",
			Subsystem: "derive",
			Name:      "formula_failures_total",
			Help:      "Formula evaluations that produced no value.",
		}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
