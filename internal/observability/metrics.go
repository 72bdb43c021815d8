package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// collector loop.
type Metrics struct {
	SnapshotsEmitted prometheus.Counter
	TransportErrors  prometheus.Counter
	ParseErrors      prometheus.Counter
	PublishErrors    prometheus.Counter
	CollectorRunning prometheus.Gauge

	FetchDuration  prometheus.Histogram
	SnapshotFields prometheus.Histogram

	// RainInches accumulates the per-cycle rain deltas, so its total tracks
	// actual rainfall seen since process start regardless of storm resets.
	RainInches prometheus.Counter
}

// NewMetrics creates and registers all collector metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SnapshotsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wll",
			Name:      "snapshots_emitted_total",
			Help:      "Total snapshots delivered to the sink.",
		}),
		TransportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wll",
			Name:      "transport_errors_total",
			Help:      "Total poll cycles aborted by a device fetch failure.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wll",
			Name:      "parse_errors_total",
			Help:      "Total poll cycles aborted by a malformed device document.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wll",
			Name:      "publish_errors_total",
			Help:      "Total snapshots dropped because the sink rejected them.",
		}),
		CollectorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wll",
			Name:      "collector_running",
			Help:      "1 when the poll loop is active, 0 when shut down.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wll",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the device HTTP fetch.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SnapshotFields: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wll",
			Name:      "snapshot_fields",
			Help:      "Number of populated fields per emitted snapshot.",
			Buckets:   []float64{1, 5, 10, 15, 20, 25, 30},
		}),
		RainInches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wll",
			Name:      "rain_inches_total",
			Help:      "Cumulative rainfall in inches derived from storm-counter deltas.",
		}),
	}

	prometheus.MustRegister(
		m.SnapshotsEmitted,
		m.TransportErrors,
		m.ParseErrors,
		m.PublishErrors,
		m.CollectorRunning,
		m.FetchDuration,
		m.SnapshotFields,
		m.RainInches,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SnapshotsEmitted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wll", Name: "snapshots_emitted_total"}),
		TransportErrors:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wll", Name: "transport_errors_total"}),
		ParseErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wll", Name: "parse_errors_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wll", Name: "publish_errors_total"}),
		CollectorRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wll", Name: "collector_running"}),
		FetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wll", Name: "fetch_duration_seconds"}),
		SnapshotFields:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wll", Name: "snapshot_fields"}),
		RainInches:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wll", Name: "rain_inches_total"}),
	}
}
