// Package httptransport assembles the HTTP router: middleware chain, the
// birthplace API, system endpoints and the metrics scrape endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nidgate/internal/birthplace/handler"
	"nidgate/internal/platform/metrics"
	"nidgate/internal/platform/middleware"
	"nidgate/pkg/platform/middleware/metadata"
	"nidgate/pkg/platform/middleware/requesttime"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Service handler.Service
	Logger  *slog.Logger
	Version string

	// Metrics and Gatherer are optional. Without a Gatherer, /metrics is not
	// mounted.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.LatencyMiddleware(d.Metrics))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}
	if d.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodyBytes(d.MaxBodyBytes))
	}
	r.Use(middleware.CORS(d.AllowedOrigins))

	handler.NewSystemHandler(d.Service, d.Version).Register(r)
	handler.New(d.Service, d.Logger).Register(r)

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
