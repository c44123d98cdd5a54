package websocket

import (
	"github.com/gorilla/websocket"
)

// connectionWrapper adapts *websocket.Conn to Connection. Every method but
// RemoteAddr is promoted from the embedded connection.
type connectionWrapper struct {
	*websocket.Conn
}

// NewConnectionWrapper wraps a gorilla/websocket connection
func NewConnectionWrapper(conn *websocket.Conn) Connection {
	return connectionWrapper{Conn: conn}
}

// RemoteAddr returns the remote network address as text
func (c connectionWrapper) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
