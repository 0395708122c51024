package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementOutcome("valid")
	m.IncrementOutcome("valid")
	m.IncrementOutcome("invalid_checksum")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationOutcome.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationOutcome.WithLabelValues("invalid_checksum")))

	m.IncrementLookup(true)
	m.IncrementLookup(false)
	m.IncrementLookup(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupResult.WithLabelValues("found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupResult.WithLabelValues("not_found")))

	m.SetDatasetEntries("file", 42)
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DatasetEntries.WithLabelValues("file")))

	m.IncrementLoadFailure("redis")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetLoadFailures.WithLabelValues("redis")))

	m.ObserveLoadLatency("file", 3*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.DatasetLoadLatency))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementOutcome("valid")
		m.IncrementLookup(true)
		m.SetDatasetEntries("file", 1)
		m.IncrementLoadFailure("file")
		m.ObserveLoadLatency("file", time.Second)
	})
}
