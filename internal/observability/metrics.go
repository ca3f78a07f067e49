package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zipcoords"

// Metrics holds the Prometheus counters, histograms, and gauges for a conversion run.
type Metrics struct {
	RowsRead       prometheus.Counter
	RowsSkipped    prometheus.Counter
	DuplicateKeys  prometheus.Counter
	EntriesWritten prometheus.Counter

	ConversionDuration prometheus.Histogram
	LastSuccess        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all conversion metrics and registers them with a
// dedicated registry, so a textfile dump only carries this job's series.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read from the input, excluding the header.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Rows dropped because a coordinate or key failed to parse.",
		}),
		DuplicateKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_keys_total",
			Help:      "Rows that overwrote an earlier row with the same normalized key.",
		}),
		EntriesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_written_total",
			Help:      "Entries written to the output document.",
		}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Duration of a complete read-convert-write run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful conversion.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsSkipped,
		m.DuplicateKeys,
		m.EntriesWritten,
		m.ConversionDuration,
		m.LastSuccess,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry for use in tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// Gatherer exposes the registry backing these metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// WriteTextfile dumps all metrics in the text exposition format to path,
// for pickup by the node_exporter textfile collector. The file is written
// to a temp file and renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
