package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "rhessys_forcing"

// Metrics holds the Prometheus counters and gauges for a conversion run.
// The converter is a batch job, so metrics live on their own registry and
// are exported once at exit via a textfile or the Pushgateway.
type Metrics struct {
	Registry *prometheus.Registry

	HourlyRecords      prometheus.Counter
	DaysWritten        prometheus.Counter
	FilesWritten       prometheus.Counter
	Warnings           *prometheus.CounterVec // labels: kind
	SinkErrors         *prometheus.CounterVec // labels: sink
	RunDuration        prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge
}

// NewMetrics creates all converter metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HourlyRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hourly_records_total",
			Help:      "Hourly records extracted from the forcing document.",
		}),
		DaysWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_written_total",
			Help:      "Daily values written to each climate file.",
		}),
		FilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Climate files written.",
		}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Data-quality warnings by kind.",
		}, []string{"kind"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed loads to optional result sinks.",
		}, []string{"sink"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last conversion run.",
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful conversion.",
		}),
	}

	m.Registry.MustRegister(
		m.HourlyRecords,
		m.DaysWritten,
		m.FilesWritten,
		m.Warnings,
		m.SinkErrors,
		m.RunDuration,
		m.LastSuccessSeconds,
	)

	return m
}

// NewMetricsForTesting returns Metrics on an isolated registry. Every call
// gets its own registry, so tests never collide.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// WriteTextfile writes every metric in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Push sends every metric to a Prometheus Pushgateway under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
