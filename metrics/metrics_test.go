package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetchCountsOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("sheets", time.Second, nil)
	m.ObserveFetch("sheets", time.Second, errors.New("boom"))
	m.ObserveFetch("sheets", time.Second, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("sheets", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("sheets", "error")))
}

func TestSetSnapshot(t *testing.T) {
	m := New(prometheus.NewRegistry())
	at := time.Unix(1700000000, 0)
	m.SetSnapshot(42, at)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.snapshotRows))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.snapshotAge))
}

func TestEvaluationsAndExports(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveEvaluation(10)
	m.ObserveEvaluation(0)
	m.ObserveExport("csv")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("csv")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("x", 0, nil)
	m.SetSnapshot(1, time.Now())
	m.ObserveEvaluation(1)
	m.ObserveExport("csv")
}
