package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"erpcalc/internal/calc"
	"erpcalc/internal/config"
	"erpcalc/internal/exporter"
	"erpcalc/internal/infrastructure"
	"erpcalc/internal/input"
	"erpcalc/internal/shared/testutil"
	api "erpcalc/pkg/contracts/api/v1"
	"erpcalc/pkg/contracts/events"
)

type staticSettings config.EngineConfig

func (s staticSettings) Engine() config.EngineConfig { return config.EngineConfig(s) }

var testEngine = staticSettings{DefaultWindow: 2, DefaultHorizon: 1, MaxInputLines: 5, MaxInputBytes: 256}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) {
	m.Called(msgType, data)
}

func newTestService(t *testing.T, hub Broadcaster, bomPrefix bool) (*CalculationService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	return NewCalculationService(testEngine, hub, nil, nil, bomPrefix, logger), handler
}

func TestCalculateEveryCalculator(t *testing.T) {
	svc, _ := newTestService(t, nil, false)

	for name, text := range testutil.SampleInputs {
		t.Run(name, func(t *testing.T) {
			req := api.CalculationRequest{Input: text}
			if name == calc.NameSAW {
				req.Weights = testutil.SampleWeights
			}
			c, err := svc.Calculate(context.Background(), name, req)
			require.NoError(t, err)
			assert.Equal(t, name, c.Calculator)
			assert.Equal(t, name, c.Result.Calculator)
			assert.Len(t, c.ID, 36)
			assert.Equal(t, len(input.ParseLines(text)), c.Lines)
			assert.NotEmpty(t, c.Result.Rows)
		})
	}
}

func TestCalculateAppliesEngineDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil, false)

	c, err := svc.Calculate(context.Background(), calc.NameForecast, api.CalculationRequest{Input: "10,20,30,40,50"})
	require.NoError(t, err)
	assert.Equal(t, []string{"45.00"}, c.Result.Next)

	horizon := 2
	c, err = svc.Calculate(context.Background(), calc.NameForecast, api.CalculationRequest{Input: "10,20,30,40,50", Window: 3, Horizon: &horizon})
	require.NoError(t, err)
	assert.Equal(t, []string{"40.00", "43.33"}, c.Result.Next)

	horizon = 0
	c, err = svc.Calculate(context.Background(), calc.NameForecast, api.CalculationRequest{Input: "10,20,30,40,50", Horizon: &horizon})
	require.NoError(t, err)
	assert.Empty(t, c.Result.Next)
}

func TestCalculateLinesInput(t *testing.T) {
	svc, _ := newTestService(t, nil, false)

	c, err := svc.Calculate(context.Background(), calc.NameMarkov, api.CalculationRequest{
		Lines:   []string{" A,B ", "", "B,A"},
		PerLine: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Lines)
}

func TestCalculateErrors(t *testing.T) {
	svc, _ := newTestService(t, nil, false)

	tests := []struct {
		name       string
		calculator string
		req        api.CalculationRequest
		check      func(t *testing.T, err error)
	}{
		{
			name:       "unknown calculator",
			calculator: "simplex",
			req:        api.CalculationRequest{Input: "x"},
			check:      func(t *testing.T, err error) { assert.ErrorIs(t, err, calc.ErrUnknownCalculator) },
		},
		{
			name:       "profile needs two records",
			calculator: calc.NameProfile,
			req:        api.CalculationRequest{Input: "Ideal,1,2"},
			check: func(t *testing.T, err error) {
				var ce *input.CountError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, 2, ce.Min)
			},
		},
		{
			name:       "empty input",
			calculator: calc.NameBOM,
			req:        api.CalculationRequest{Input: "\n \n"},
			check: func(t *testing.T, err error) {
				var ce *input.CountError
				assert.ErrorAs(t, err, &ce)
			},
		},
		{
			name:       "too many lines",
			calculator: calc.NameBasket,
			req:        api.CalculationRequest{Input: "a\nb\nc\nd\ne\nf"},
			check:      func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInputTooLarge) },
		},
		{
			name:       "too many bytes",
			calculator: calc.NameBasket,
			req:        api.CalculationRequest{Input: strings.Repeat("a,", 200)},
			check:      func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInputTooLarge) },
		},
		{
			name:       "insufficient data",
			calculator: calc.NameForecast,
			req:        api.CalculationRequest{Input: "10,20", Window: 3},
			check:      func(t *testing.T, err error) { assert.ErrorIs(t, err, calc.ErrInsufficientData) },
		},
		{
			name:       "strict alignment",
			calculator: calc.NameSAW,
			req:        api.CalculationRequest{Input: "X,1,2", Weights: "1", Strict: true},
			check: func(t *testing.T, err error) {
				var ae *calc.AlignmentError
				assert.ErrorAs(t, err, &ae)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Calculate(context.Background(), tt.calculator, tt.req)
			assert.Nil(t, c)
			tt.check(t, err)
		})
	}
}

func TestCalculatePublishesEvents(t *testing.T) {
	hub := new(mockBroadcaster)
	svc, logs := newTestService(t, hub, false)

	hub.On("Broadcast", events.MessageTypeCalculationComplete, mock.MatchedBy(func(e events.CalculationEvent) bool {
		return e.Calculator == calc.NameBasket && e.Lines == 2 && e.Rows == 3 && e.Error == ""
	})).Once()
	hub.On("Broadcast", events.MessageTypeCalculationFailed, mock.MatchedBy(func(e events.CalculationEvent) bool {
		return e.Calculator == calc.NameForecast && strings.Contains(e.Error, "insufficient data")
	})).Once()

	_, err := svc.Calculate(context.Background(), calc.NameBasket, api.CalculationRequest{Input: "a,b,c\na,b"})
	require.NoError(t, err)
	_, err = svc.Calculate(context.Background(), calc.NameForecast, api.CalculationRequest{Input: "1", Window: 3})
	require.Error(t, err)

	hub.AssertExpectations(t)
	assert.True(t, logs.ContainsMessage("calculation completed"))
	assert.True(t, logs.ContainsMessage("calculation failed"))
}

func TestCalculateSkipsEventsForRejectedInput(t *testing.T) {
	hub := new(mockBroadcaster)
	svc, _ := newTestService(t, hub, false)

	_, err := svc.Calculate(context.Background(), "simplex", api.CalculationRequest{Input: "x"})
	require.Error(t, err)
	_, err = svc.Calculate(context.Background(), calc.NameBOM, api.CalculationRequest{})
	require.Error(t, err)

	hub.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t, nil, true)
	ctx := context.Background()

	t.Run("csv with bom prefix", func(t *testing.T) {
		exp, err := svc.Export(ctx, calc.NameBOM, api.CalculationRequest{Input: testutil.SampleInputs["bom"]}, exporter.FormatCSV, "")
		require.NoError(t, err)
		assert.Equal(t, "bom_result.csv", exp.FileName)
		assert.True(t, bytes.HasPrefix(exp.Data, []byte("\xef\xbb\xbf")))
		assert.Contains(t, string(exp.Data), `"Leg"`)
	})

	t.Run("csv section", func(t *testing.T) {
		exp, err := svc.Export(ctx, calc.NameJSM, api.CalculationRequest{Input: testutil.SampleInputs["jsm"]}, exporter.FormatCSV, "spt")
		require.NoError(t, err)
		assert.Equal(t, "jsm_result_spt.csv", exp.FileName)
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := svc.Export(ctx, calc.NameJSM, api.CalculationRequest{Input: testutil.SampleInputs["jsm"]}, exporter.FormatCSV, "lifo")
		assert.ErrorIs(t, err, ErrExportFailed)
	})

	t.Run("xlsx", func(t *testing.T) {
		exp, err := svc.Export(ctx, calc.NameSAW, api.CalculationRequest{Input: testutil.SampleInputs["saw"], Weights: testutil.SampleWeights}, exporter.FormatXLSX, "")
		require.NoError(t, err)
		assert.Equal(t, "saw_result.xlsx", exp.FileName)
		assert.True(t, bytes.HasPrefix(exp.Data, []byte("PK")))
	})
}

func TestCalculateRecordsMetrics(t *testing.T) {
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

	svc := NewCalculationService(testEngine, nil, providers.Tracer, metrics, false, logger)
	_, err = svc.Export(context.Background(), calc.NameMarkov, api.CalculationRequest{Input: "A,B"}, exporter.FormatCSV, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `calculator="markov"`)
	assert.Contains(t, body, "exports_total")
	assert.Contains(t, body, `format="csv"`)
}

func TestCalculationResponse(t *testing.T) {
	svc, _ := newTestService(t, nil, false)
	c, err := svc.Calculate(context.Background(), calc.NameBasket, api.CalculationRequest{Input: "a,b"})
	require.NoError(t, err)

	resp := c.Response()
	assert.Equal(t, c.ID, resp.ID)
	assert.Equal(t, calc.NameBasket, resp.Calculator)
	assert.Equal(t, 1, resp.Lines)
	assert.Same(t, c.Result, resp.Result)
	assert.GreaterOrEqual(t, resp.DurationMS, 0.0)
}
