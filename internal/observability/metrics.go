package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gameday"

// Metrics holds the Prometheus counters, histograms, and gauges for dataset
// preparation and publishing.
type Metrics struct {
	RowsRead    *prometheus.CounterVec // labels: table={games,ratings,capacity}
	RowsPatched *prometheus.CounterVec // labels: column={duration,attend}
	RowsDropped *prometheus.CounterVec // labels: join={ratings,capacity}

	EnrichedGames     prometheus.Gauge
	TeamsWithoutGames prometheus.Gauge
	DatasetReady      prometheus.Gauge

	PrepareErrors   prometheus.Counter
	PrepareDuration prometheus.Histogram

	// Sink metrics.
	MessagesProduced *prometheus.CounterVec // labels: topic
	SinkErrors       prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from each input table.",
		}, []string{"table"}),
		RowsPatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_patched_total",
			Help:      "Cells overwritten by known-bad-value corrections, by column.",
		}, []string{"column"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Games dropped by an inner join, by join.",
		}, []string{"join"}),
		EnrichedGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enriched_games",
			Help:      "Games in the currently published dataset.",
		}),
		TeamsWithoutGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "teams_without_games",
			Help:      "Tracked teams with no games in the currently published dataset.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once a dataset has been published, 0 before.",
		}),
		PrepareErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prepare_errors_total",
			Help:      "Dataset builds that failed while loading or preparing.",
		}),
		PrepareDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prepare_duration_seconds",
			Help:      "Duration of a complete load-prepare-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MessagesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Messages written to the sink, by topic.",
		}, []string{"topic"}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Dataset publishes that a sink rejected.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsPatched,
		m.RowsDropped,
		m.EnrichedGames,
		m.TeamsWithoutGames,
		m.DatasetReady,
		m.PrepareErrors,
		m.PrepareDuration,
		m.MessagesProduced,
		m.SinkErrors,
	}
}
