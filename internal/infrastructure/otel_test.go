package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcalc/internal/config"
	"erpcalc/internal/shared/testutil"
)

func TestInitializeOTelWithMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(config.ObservabilityConfig{
		ServiceName:    "erpcalc-test",
		TraceExporter:  "none",
		MetricsEnabled: true,
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)

	metrics, err := NewCalculationMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordCalculation(ctx, "saw", 2, 15*time.Millisecond, nil)
	metrics.RecordCalculation(ctx, "forecast", 1, time.Millisecond, errors.New("insufficient data"))
	metrics.RecordExport(ctx, "saw", "csv")

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body), "calculations_total")
	assert.Contains(t, string(body), `calculator="saw"`)
	assert.Contains(t, string(body), `status="failure"`)
	assert.Contains(t, string(body), "calculation_duration_seconds")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInitializeOTelDisabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(config.ObservabilityConfig{ServiceName: "x", TraceExporter: "none"}, logger)
	require.NoError(t, err)

	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)

	// no-op instruments still work
	metrics, err := NewCalculationMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordCalculation(context.Background(), "bom", 1, time.Millisecond, nil)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnsupportedExporter(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, err := InitializeOTel(config.ObservabilityConfig{ServiceName: "x", TraceExporter: "zipkin"}, logger)
	assert.Error(t, err)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *CalculationMetrics
	m.RecordCalculation(context.Background(), "bom", 1, time.Millisecond, nil)
	m.RecordExport(context.Background(), "bom", "csv")
}

func TestCollectRuntimeStats(t *testing.T) {
	stats := CollectRuntimeStats(time.Now().Add(-time.Second))
	assert.Positive(t, stats.Goroutines)
	assert.GreaterOrEqual(t, stats.UptimeSeconds, 1.0)
}
