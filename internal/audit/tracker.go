package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nidgate/pkg/requestcontext"
)

const (
	defaultBuffer    = 256
	drainTimeout     = 5 * time.Second
	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

// Tracker accepts ops events from request paths without blocking them and
// hands them to a Publisher from a single background worker.
type Tracker struct {
	inbox     chan Event
	publisher Publisher
	sampler   *Sampler
	breaker   *circuitBreaker
	metrics   *Metrics
	logger    *slog.Logger
}

type TrackerOption func(*Tracker)

func WithBuffer(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.inbox = make(chan Event, n)
		}
	}
}

func WithSampler(s *Sampler) TrackerOption {
	return func(t *Tracker) {
		t.sampler = s
	}
}

func WithMetrics(m *Metrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a tracker publishing to publisher. Call Run to start
// delivery.
func NewTracker(publisher Publisher, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		inbox:     make(chan Event, defaultBuffer),
		publisher: publisher,
		sampler:   NewSampler(1),
		breaker:   newCircuitBreaker(breakerThreshold, breakerCooldown),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track enqueues event. It fills ID, Timestamp and RequestID from ctx when
// unset, and drops the event if it is sampled out or the buffer is full.
func (t *Tracker) Track(ctx context.Context, event Event) {
	if t == nil {
		return
	}
	if !t.sampler.ShouldSample(event.Action) {
		t.metrics.incSampled()
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	select {
	case t.inbox <- event:
	default:
		t.metrics.incBufferDropped()
		t.logger.WarnContext(ctx, "ops event buffer full, dropping event",
			"action", event.Action,
			"request_id", event.RequestID,
		)
	}
}

// pending returns the number of buffered events.
func (t *Tracker) pending() int {
	return len(t.inbox)
}
