package models

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one WebSocket connection bound to an authenticated user.
// RoomID tracks the room channel the connection is currently subscribed to
// ("" while browsing the lobby).
type Client struct {
	Conn   *websocket.Conn
	UserID string
	RoomID string

	writeMu sync.Mutex
}

// Send marshals the payload and writes it as a single text frame. Gorilla
// connections allow only one concurrent writer, so all writes go through
// the client's write lock.
func (c *Client) Send(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Ping writes a ping control frame under the same write lock as Send.
func (c *Client) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}
