package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// sendTimeout bounds a single progress frame write. A subscriber that cannot
// drain within it is treated as gone so it does not stall the hub.
const sendTimeout = 5 * time.Second

// Client adapts a websocket connection to the hub's Subscriber interface.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger
}

// NewClient constructs a client wrapper.
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{conn: conn, log: logger}
}

// Send writes one progress frame to the connection.
func (c *Client) Send(payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.log.Warn("websocket send failed", "error", err)
		_ = c.conn.Close()
		return err
	}
	return nil
}

// Close terminates the connection.
func (c *Client) Close() {
	_ = c.conn.Close()
}
