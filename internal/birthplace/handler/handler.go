package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nidgate/internal/birthplace"
	"nidgate/pkg/domain"
	"nidgate/pkg/platform/httputil"
	"nidgate/pkg/requestcontext"
)

// Service defines the interface for birthplace operations.
type Service interface {
	Validate(ctx context.Context, code domain.NationalCode) (*birthplace.ValidationResult, error)
	Lookup(ctx context.Context, code domain.NationalCode) (*birthplace.LookupResult, error)
	Dataset() *birthplace.Dataset
	Source() string
}

// Handler wires birthplace endpoints to the birthplace service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a birthplace handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the birthplace API on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/birthplace", func(r chi.Router) {
		r.Post("/validate", h.HandleValidate)
		r.Get("/validate/{national_code:[0-9]{10}}", h.HandleLookup)
		r.Get("/all", h.HandleAll)
	})
}

// HandleValidate handles POST /api/birthplace/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, req.ParsedNationalCode())
	if err != nil {
		h.logger.ErrorContext(ctx, "national code validation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "national code validated",
		"request_id", requestID,
		"outcome", result.Outcome,
		"prefix", result.Prefix,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result, req.RawNationalCode()))
}

// HandleLookup handles GET /api/birthplace/validate/{national_code}. The
// route pattern already guarantees ten ASCII digits.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	code, err := domain.ParseNationalCode(chi.URLParam(r, "national_code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Lookup(ctx, code)
	if err != nil {
		h.logger.InfoContext(ctx, "birthplace lookup failed",
			"request_id", requestID,
			"prefix", code.Prefix(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromLookup(result))
}

// HandleAll handles GET /api/birthplace/all by dumping the dataset in
// document form.
func (h *Handler) HandleAll(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Dataset())
}
