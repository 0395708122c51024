package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ops event tracking.
type Metrics struct {
	Published       prometheus.Counter
	Sampled         prometheus.Counter
	BufferDropped   prometheus.Counter
	BreakerDropped  prometheus.Counter
	PublishFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

// NewMetrics registers the tracker metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "birthplace_audit_published_total",
			Help: "Ops events delivered to the sink",
		}),
		Sampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "birthplace_audit_sampled_total",
			Help: "Ops events dropped by sampling",
		}),
		BufferDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "birthplace_audit_buffer_dropped_total",
			Help: "Ops events dropped because the buffer was full",
		}),
		BreakerDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "birthplace_audit_breaker_dropped_total",
			Help: "Ops events dropped while the sink circuit was open",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "birthplace_audit_publish_failures_total",
			Help: "Ops event publish attempts that failed",
		}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "birthplace_audit_breaker_state",
			Help: "Sink circuit state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) incSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) incBufferDropped() {
	if m != nil {
		m.BufferDropped.Inc()
	}
}

func (m *Metrics) incBreakerDropped() {
	if m != nil {
		m.BreakerDropped.Inc()
	}
}

func (m *Metrics) incPublishFailures() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

func (m *Metrics) setBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
