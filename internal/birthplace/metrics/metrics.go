package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the birthplace module.
type Metrics struct {
	// Validation outcomes: invalid_checksum, prefix_not_found, valid
	ValidationOutcome *prometheus.CounterVec

	// Prefix lookups by result: found, not_found
	LookupResult *prometheus.CounterVec

	// Entries in the loaded dataset, by source
	DatasetEntries *prometheus.GaugeVec

	// Dataset load failures by source
	DatasetLoadFailures *prometheus.CounterVec

	DatasetLoadLatency *prometheus.HistogramVec
}

// New registers the birthplace metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ValidationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthplace_validation_outcomes_total",
			Help: "National code validations by outcome",
		}, []string{"outcome"}),

		LookupResult: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthplace_lookups_total",
			Help: "Prefix lookups by result",
		}, []string{"result"}),

		DatasetEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "birthplace_dataset_entries",
			Help: "Number of prefix entries in the loaded dataset",
		}, []string{"source"}),

		DatasetLoadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthplace_dataset_load_failures_total",
			Help: "Dataset loads that degraded to an empty dataset",
		}, []string{"source"}),

		DatasetLoadLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "birthplace_dataset_load_duration_seconds",
			Help:    "Duration of loading the dataset from its source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"source"}),
	}
}

// IncrementOutcome records a validation outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.ValidationOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementLookup records a prefix lookup.
func (m *Metrics) IncrementLookup(found bool) {
	if m == nil {
		return
	}
	result := "not_found"
	if found {
		result = "found"
	}
	m.LookupResult.WithLabelValues(result).Inc()
}

// SetDatasetEntries records the size of the dataset loaded from source.
func (m *Metrics) SetDatasetEntries(source string, n int) {
	if m != nil {
		m.DatasetEntries.WithLabelValues(source).Set(float64(n))
	}
}

// IncrementLoadFailure records a failed dataset load.
func (m *Metrics) IncrementLoadFailure(source string) {
	if m != nil {
		m.DatasetLoadFailures.WithLabelValues(source).Inc()
	}
}

// ObserveLoadLatency records how long a dataset load took.
func (m *Metrics) ObserveLoadLatency(source string, d time.Duration) {
	if m != nil {
		m.DatasetLoadLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}
