package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"erpcalc/internal/config"
	apierrors "erpcalc/internal/errors"
	"erpcalc/internal/infrastructure"
)

// Handler upgrades HTTP requests to websocket clients of a hub
type Handler struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	opts         ClientOptions
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHandler creates the /ws endpoint. allowedOrigins follows the CORS
// setting: empty or "*" accepts any origin.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		opts: ClientOptions{
			PingPeriod: cfg.PingPeriod,
			PongWait:   cfg.PongWait,
		},
		logger:       logger.With(slog.String("component", "websocket.handler")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !websocket.IsWebSocketUpgrade(r) {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "WEBSOCKET_UPGRADE_FAILED", "Expected a websocket upgrade request", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := NewClient(h.hub, NewConnectionWrapper(conn), infrastructure.GetTraceID(ctx), h.opts, h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
