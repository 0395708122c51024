package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers ops events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// LogPublisher writes events as structured log lines.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "ops event",
		"event_id", event.ID,
		"action", event.Action,
		"outcome", event.Outcome,
		"prefix", event.Prefix,
		"subject_hash", event.SubjectHash,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp,
	)
	return nil
}

func (p *LogPublisher) Close() {}
