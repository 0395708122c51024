package audit

import (
	"context"
	"time"
)

// Run delivers buffered events until ctx is cancelled, then drains what is
// left with a short grace period. It always returns nil on cancellation.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			t.drain(ctx)
			return nil
		case event := <-t.inbox:
			t.deliver(ctx, event)
		}
	}
}

func (t *Tracker) drain(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-t.inbox:
			t.deliver(ctx, event)
		default:
			return
		}
	}
}

func (t *Tracker) deliver(ctx context.Context, event Event) {
	if !t.breaker.allow() {
		t.metrics.incBreakerDropped()
		return
	}
	t.metrics.setBreakerState(false)

	start := time.Now()
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.metrics.incPublishFailures()
		opened := t.breaker.recordFailure()
		t.logger.WarnContext(ctx, "failed to publish ops event",
			"event_id", event.ID,
			"action", event.Action,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		if opened {
			t.metrics.setBreakerState(true)
			t.logger.ErrorContext(ctx, "ops sink circuit opened, dropping events during cooldown")
		}
		return
	}
	t.breaker.recordSuccess()
	t.metrics.incPublished()
}
