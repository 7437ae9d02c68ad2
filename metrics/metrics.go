package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the dashboard's Prometheus instruments.
type Metrics struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	snapshotRows  prometheus.Gauge
	snapshotAge   prometheus.Gauge
	evaluations   prometheus.Counter
	filteredRows  prometheus.Histogram
	exports       *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_fetches_total",
			Help: "Row source fetches by source and outcome",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Time spent fetching rows from a source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		snapshotRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_snapshot_rows",
			Help: "Rows in the snapshot currently served",
		}),
		snapshotAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_snapshot_fetched_timestamp_seconds",
			Help: "Unix time the served snapshot was fetched",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_evaluations_total",
			Help: "Pipeline evaluations (filter, aggregate, paginate)",
		}),
		filteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_filtered_rows",
			Help:    "Rows left after filtering, per evaluation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_exports_total",
			Help: "Exports of the filtered rows by format",
		}, []string{"format"}),
	}
	reg.MustRegister(m.fetches, m.fetchDuration, m.snapshotRows, m.snapshotAge,
		m.evaluations, m.filteredRows, m.exports)
	return m
}

// ObserveFetch records one fetch attempt against a source.
func (m *Metrics) ObserveFetch(source string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fetches.WithLabelValues(source, outcome).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

// SetSnapshot records the snapshot now being served.
func (m *Metrics) SetSnapshot(rows int, fetchedAt time.Time) {
	if m == nil {
		return
	}
	m.snapshotRows.Set(float64(rows))
	m.snapshotAge.Set(float64(fetchedAt.Unix()))
}

// ObserveEvaluation records one pipeline run.
func (m *Metrics) ObserveEvaluation(filtered int) {
	if m == nil {
		return
	}
	m.evaluations.Inc()
	m.filteredRows.Observe(float64(filtered))
}

// ObserveExport records one export.
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
