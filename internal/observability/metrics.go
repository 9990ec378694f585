package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the festival catalog.
type Metrics struct {
	Loads          *prometheus.CounterVec // labels: outcome={success,error}
	LoadDuration   prometheus.Histogram
	RowsLoaded     prometheus.Gauge
	DegradedCells  *prometheus.CounterVec // labels: column, reason
	CatalogReady   prometheus.Gauge
	SnapshotLoaded prometheus.Gauge // unix seconds of the current snapshot

	// Query metrics.
	QueryCache       *prometheus.CounterVec // labels: result={hit,miss}
	FilterResultSize prometheus.Histogram

	PublishErrors prometheus.Counter
}

var (
	loadDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	resultSizeBuckets   = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}
)

// NewMetrics creates and registers all catalog metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates all catalog metrics and registers them with reg.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Loads,
		m.LoadDuration,
		m.RowsLoaded,
		m.DegradedCells,
		m.CatalogReady,
		m.SnapshotLoaded,
		m.QueryCache,
		m.FilterResultSize,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "festival",
			Name:      "loads_total",
			Help:      "Dataset loads by outcome.",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "festival",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete read-and-derive cycle.",
			Buckets:   loadDurationBuckets,
		}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "festival",
			Name:      "rows_loaded",
			Help:      "Number of festivals in the current snapshot.",
		}),
		DegradedCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "festival",
			Name:      "degraded_cells_total",
			Help:      "Cells that degraded to a zero value during derivation.",
		}, []string{"column", "reason"}),
		CatalogReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "festival",
			Name:      "catalog_ready",
			Help:      "1 when a snapshot is loaded, 0 otherwise.",
		}),
		SnapshotLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "festival",
			Name:      "snapshot_loaded_timestamp_seconds",
			Help:      "Unix time the current snapshot was loaded.",
		}),
		QueryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "festival",
			Name:      "query_cache_total",
			Help:      "Filter query cache lookups by result.",
		}, []string{"result"}),
		FilterResultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "festival",
			Name:      "filter_result_size",
			Help:      "Number of festivals returned per filter query.",
			Buckets:   resultSizeBuckets,
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "festival",
			Name:      "publish_errors_total",
			Help:      "Snapshot publish failures.",
		}),
	}
}
