package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"erpcalc/internal/calc"
	"erpcalc/internal/infrastructure"
	"erpcalc/pkg/contracts/events"
)

const (
	// broadcastBuffer bounds the queue between publishers and the hub loop
	broadcastBuffer = 256

	// sendBuffer bounds the per-client outbound queue
	sendBuffer = 64
)

// Hub maintains the set of active clients and broadcasts calculation events to them
type Hub struct {
	// Registered clients. Written only by Run; mu guards reads from other goroutines.
	clients map[*Client]struct{}
	mu      sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	logger  *slog.Logger
	metrics *infrastructure.CalculationMetrics

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	messagesDropped  atomic.Int64
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.CalculationMetrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, after
// closing every client's send queue.
func (h *Hub) Run(ctx context.Context) error {
	h.logger.InfoContext(ctx, "websocket hub started")
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.totalConnections.Add(1)
			h.recordClients(1)

			h.logger.InfoContext(client.context(), "client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			h.sendConnect(client)

		case client := <-h.unregister:
			h.remove(client, "client unregistered")

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
					h.messagesSent.Add(1)
				default:
					h.remove(client, "client send buffer full, disconnecting")
				}
			}
		}
	}
}

// remove drops client and closes its send queue. Only Run calls it.
func (h *Hub) remove(client *Client, msg string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	close(client.send)
	h.recordClients(-1)

	h.logger.InfoContext(client.context(), msg,
		slog.String("client_id", client.id),
		slog.Int("total_clients", count),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		h.recordClients(-1)
	}
	h.logger.Info("websocket hub stopped",
		slog.Int64("total_connections", h.totalConnections.Load()),
		slog.Int64("messages_sent", h.messagesSent.Load()),
		slog.Int64("messages_dropped", h.messagesDropped.Load()))
}

func (h *Hub) recordClients(delta int64) {
	if h.metrics != nil {
		h.metrics.WebSocketClients.Add(context.Background(), delta)
	}
}

func (h *Hub) sendConnect(client *Client) {
	data, err := h.encode(client.context(), events.MessageTypeConnect, events.ConnectEvent{
		ClientID:    client.id,
		Calculators: calc.Names(),
	})
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("failed to send connect message, client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) encode(ctx context.Context, msgType events.MessageType, data interface{}) ([]byte, error) {
	b, err := json.Marshal(events.WebSocketMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
		Data:      data,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal websocket message",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
	}
	return b, err
}

// Broadcast queues an event for every connected client. It never blocks:
// when the hub is stopped or its queue is full the event is dropped.
func (h *Hub) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) {
	b, err := h.encode(ctx, msgType, data)
	if err != nil {
		return
	}

	select {
	case <-h.done:
		h.messagesDropped.Add(1)
		return
	default:
	}

	select {
	case h.broadcast <- b:
	default:
		h.messagesDropped.Add(1)
		h.logger.WarnContext(ctx, "broadcast queue full, dropping event",
			slog.String("type", string(msgType)))
	}
}

// Register hands a client to the hub loop. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; safe to call after the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the hub counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections.Load(),
		"messages_sent":     h.messagesSent.Load(),
		"messages_dropped":  h.messagesDropped.Load(),
	}
}
