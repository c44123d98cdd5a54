package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcalc/internal/config"
	"erpcalc/internal/shared/testutil"
	"erpcalc/pkg/contracts/events"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

// startTestApp wires an application around cfg and serves its router from
// an httptest server with the hub running
func startTestApp(t *testing.T, cfg *config.Config) (*Application, *httptest.Server) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	a, err := New(cfg, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.WebSocketHub.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
		a.OTelProviders.Shutdown(context.Background())
	})
	return a, srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes(t *testing.T) {
	_, srv := startTestApp(t, testConfig())

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "live", method: http.MethodGet, path: "/api/health/live", wantStatus: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/api/health/ready", wantStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/api/version", wantStatus: http.StatusOK},
		{name: "calculators", method: http.MethodGet, path: "/api/calculators", wantStatus: http.StatusOK},
		{name: "trailing slash", method: http.MethodGet, path: "/api/calculators/", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/calculators", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAPIResponseHeaders(t *testing.T) {
	_, srv := startTestApp(t, testConfig())

	resp, _ := get(t, srv.URL+"/api/health")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.True(t, resp.Uncompressed, "json responses are gzip encoded")
}

func TestNotFoundIsProblemDocument(t *testing.T) {
	_, srv := startTestApp(t, testConfig())

	resp, body := get(t, srv.URL+"/api/unknown")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &problem))
	assert.EqualValues(t, 404, problem["status"])
	assert.Equal(t, "/api/unknown", problem["instance"])
}

func TestCalculationIsBroadcast(t *testing.T) {
	_, srv := startTestApp(t, testConfig())

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var connect events.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&connect))
	require.Equal(t, events.MessageTypeConnect, connect.Type)

	resp := postJSON(t, srv.URL+"/api/calculators/saw", `{"input":"X,10,5\nY,5,10","weights":"0.5,0.5"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	requestID := resp.Header.Get("X-Request-ID")

	var msg events.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeCalculationComplete, msg.Type)
	assert.Equal(t, requestID, msg.TraceID)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "saw", data["calculator"])
	assert.EqualValues(t, 2, data["rows"])

	resp = postJSON(t, srv.URL+"/api/calculators/forecast", `{"input":"1,2","window":5}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeCalculationFailed, msg.Type)
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := startTestApp(t, testConfig())

	postJSON(t, srv.URL+"/api/calculators/markov", `{"input":"A,B,A"}`)
	_, body := get(t, srv.URL+"/metrics")

	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "calculations_total")
	assert.Contains(t, body, `calculator="markov"`)
}

func TestRequestBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.MaxInputBytes = 16
	_, srv := startTestApp(t, cfg)

	resp := postJSON(t, srv.URL+"/api/calculators/bom", `{"input":"`+strings.Repeat("x", maxEnvelopeBytes+64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/calculators/bom", `{"input":"`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	_, srv := startTestApp(t, cfg)

	resp, _ := get(t, srv.URL+"/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/api/health")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRuntimeReload(t *testing.T) {
	a, _ := startTestApp(t, testConfig())

	updated := testConfig()
	updated.Logging.Level = "debug"
	updated.Engine.DefaultWindow = 5
	updated.Security.RateLimit.RPS = 5
	updated.Security.RateLimit.Burst = 1
	a.Runtime.Apply(updated)

	rps, burst := a.RateLimiter.Limits()
	assert.Equal(t, 5.0, rps)
	assert.Equal(t, 1, burst)
	assert.Equal(t, 5, a.Runtime.Engine().DefaultWindow)
	assert.Equal(t, slog.LevelDebug, a.Runtime.LevelVar().Level())
}

func TestServeAndShutdown(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	a, err := New(testConfig(), logger)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/api/health/live"
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not shut down")
	}
	assert.True(t, logs.ContainsMessage("Application shutdown complete"))
	assert.Equal(t, 0, a.WebSocketHub.ClientCount())
}
