// Package events contains the websocket event contracts pushed to dashboards.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeCalculationComplete MessageType = "calculation:complete"
	MessageTypeCalculationFailed   MessageType = "calculation:failed"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// WebSocketMessage is the envelope of every message sent to clients
type WebSocketMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// CalculationEvent is the payload of calculation:complete and calculation:failed
type CalculationEvent struct {
	CalculationID string  `json:"calculation_id"`
	Calculator    string  `json:"calculator"`
	Lines         int     `json:"lines"`
	Rows          int     `json:"rows,omitempty"`
	DurationMS    float64 `json:"duration_ms"`
	Error         string  `json:"error,omitempty"`
}

// ConnectEvent is sent once to a client after the upgrade
type ConnectEvent struct {
	ClientID    string   `json:"client_id"`
	Calculators []string `json:"calculators"`
}
