package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidgate/internal/birthplace"
	"nidgate/internal/platform/metrics"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	dataset := birthplace.NewDataset([]birthplace.Entry{
		{Prefix: "001", Province: "تهران", City: "تهران مرکزی"},
	})
	router := NewRouter(Deps{
		Service:        birthplace.NewService(dataset, birthplace.WithSource("file")),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:        "test",
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   64,
	})
	return router, reg
}

func TestRouterServesBannerAndHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/", "/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestRouterRecordsRoutePatternLatency(t *testing.T) {
	router, reg := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/birthplace/validate/0012345679", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `route="/api/birthplace/validate/{national_code:[0-9]{10}}"`)
	assert.NotContains(t, body, "0012345679")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"national_code":"` + strings.Repeat("1", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/birthplace/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/birthplace/validate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
