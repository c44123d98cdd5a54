package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcalc/internal/config"
	"erpcalc/internal/infrastructure"
	"erpcalc/internal/shared/testutil"
)

func TestOTelMiddlewareRecordsHTTPMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(config.ObservabilityConfig{
		ServiceName:    "erpcalc-test",
		TraceExporter:  "none",
		MetricsEnabled: true,
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewCalculationMetrics(providers.Meter)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(providers, metrics).Handler)
	r.Get("/api/v1/calculators/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calculators/simplex", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()

	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/v1/calculators/{name}"`)
	assert.Contains(t, body, `status_code="404"`)
	assert.Contains(t, body, "http_request_duration_seconds")
}

func TestWebSocketTrace(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	called := false
	h := WebSocketTrace(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.True(t, called)
}
