package birthplace

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nidgate/internal/audit"
	"nidgate/internal/birthplace/metrics"
	"nidgate/pkg/domain"
	dErrors "nidgate/pkg/domain-errors"
)

var tracer = otel.Tracer("nidgate/internal/birthplace")

// Tracker receives ops events for validations and lookups.
type Tracker interface {
	Track(ctx context.Context, event audit.Event)
}

// LookupResult is the prefix-only view of a code used by the GET endpoint.
type LookupResult struct {
	NationalCode  domain.NationalCode
	Prefix        string
	Location      Location
	ChecksumValid bool
}

// Service validates national codes against a dataset loaded once at startup.
// All methods are safe for concurrent use.
type Service struct {
	dataset *Dataset
	source  string
	logger  *slog.Logger
	metrics    *metrics.Metrics
	tracker    Tracker
	subjectKey []byte
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracker(t Tracker) Option {
	return func(s *Service) {
		s.tracker = t
	}
}

// WithSubjectKey sets the key audit subject hashes are computed with. Without
// it a random key is generated, so hashes only correlate within one process.
func WithSubjectKey(key []byte) Option {
	return func(s *Service) {
		if len(key) > 0 {
			s.subjectKey = key
		}
	}
}

// WithSource names where the dataset came from, for health reporting.
func WithSource(source string) Option {
	return func(s *Service) {
		s.source = source
	}
}

// NewService constructs a Service. A nil dataset behaves as an empty one.
func NewService(dataset *Dataset, opts ...Option) *Service {
	if dataset == nil {
		dataset = EmptyDataset()
	}
	s := &Service{dataset: dataset, logger: slog.Default(), subjectKey: audit.NewSubjectKey()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate runs the checksum and, if it passes, resolves the birthplace.
// Negative outcomes are results, not errors; only a done context fails.
func (s *Service) Validate(ctx context.Context, code domain.NationalCode) (*ValidationResult, error) {
	ctx, span := tracer.Start(ctx, "birthplace.Validate")
	defer span.End()

	if err := ctxError(ctx); err != nil {
		return nil, spanError(span, err)
	}
	if code.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, domain.MsgNationalCodeLength)
	}

	res := Assemble(code, s.dataset)
	span.SetAttributes(
		attribute.String("birthplace.outcome", string(res.Outcome)),
		attribute.String("birthplace.prefix", res.Prefix),
	)
	s.metrics.IncrementOutcome(string(res.Outcome))
	s.track(ctx, audit.ActionValidate, string(res.Outcome), code)

	if res.Outcome == OutcomePrefixNotFound {
		s.logger.DebugContext(ctx, "checksum valid but prefix unknown", "prefix", res.Prefix)
	}
	return res, nil
}

// Lookup resolves the prefix of code without gating on the checksum.
// An unknown prefix is a not_found error.
func (s *Service) Lookup(ctx context.Context, code domain.NationalCode) (*LookupResult, error) {
	ctx, span := tracer.Start(ctx, "birthplace.Lookup")
	defer span.End()

	if err := ctxError(ctx); err != nil {
		return nil, spanError(span, err)
	}
	if code.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, domain.MsgNationalCodeLength)
	}

	prefix := code.Prefix()
	loc, found := s.dataset.Resolve(prefix)
	span.SetAttributes(
		attribute.String("birthplace.prefix", prefix),
		attribute.Bool("birthplace.found", found),
	)
	s.metrics.IncrementLookup(found)

	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	s.track(ctx, audit.ActionLookup, outcome, code)

	if !found {
		return nil, dErrors.New(dErrors.CodeNotFound, "birthplace code '"+prefix+"' not found")
	}
	return &LookupResult{
		NationalCode:  code,
		Prefix:        prefix,
		Location:      loc,
		ChecksumValid: ValidChecksum(code),
	}, nil
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() *Dataset {
	return s.dataset
}

// Source returns the name of the dataset source.
func (s *Service) Source() string {
	return s.source
}

func (s *Service) track(ctx context.Context, action audit.Action, outcome string, code domain.NationalCode) {
	if s.tracker == nil {
		return
	}
	s.tracker.Track(ctx, audit.Event{
		Action:      action,
		Outcome:     outcome,
		Prefix:      code.Prefix(),
		SubjectHash: audit.HashSubject(s.subjectKey, code.String()),
	})
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func ctxError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "request cancelled")
	}
}
