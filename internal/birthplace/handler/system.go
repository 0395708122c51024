package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nidgate/pkg/platform/httputil"
)

// SystemHandler serves the root banner and the health probe.
type SystemHandler struct {
	service Service
	version string
}

func NewSystemHandler(service Service, version string) *SystemHandler {
	return &SystemHandler{service: service, version: version}
}

func (h *SystemHandler) Register(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
}

func (h *SystemHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RootResponse{
		Message: "Iran Birthplace NC API is running.",
		Version: h.version,
	})
}

// HandleHealth reports ok even with an empty dataset; dataset_entries tells
// operators whether the load degraded.
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		DatasetEntries: h.service.Dataset().Len(),
		DatasetSource:  h.service.Source(),
	})
}
