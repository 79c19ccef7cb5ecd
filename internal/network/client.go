package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/principia-juego/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
	// Minimum spacing between commands from one connection.
	commandCooldown = 200 * time.Millisecond
)

// Client represents an active WebSocket connection.
type Client struct {
	hub             *Hub
	conn            *websocket.Conn
	send            chan []byte
	lastCommandTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps command envelopes from the websocket connection into the
// hub. Rejections go back to this client only; successful commands surface
// to everyone through the broadcast event stream.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var env CommandEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.hub.logger.Error("Failed to parse command envelope: " + err.Error())
			c.reject(env.Kind, err)
			continue
		}

		c.handleEnvelope(env)
	}
}

func (c *Client) handleEnvelope(env CommandEnvelope) {
	// Rate limiting: commands from a connection are paced, never queued.
	if time.Since(c.lastCommandTime) < commandCooldown {
		c.hub.logger.Warn("Rate limit exceeded for " + env.ActorID)
		return
	}
	c.lastCommandTime = time.Now()

	cmd, err := DecodeCommand(env)
	if err != nil {
		c.hub.logger.Warn("Undecodable command from " + env.ActorID + ": " + err.Error())
		c.reject(env.Kind, err)
		return
	}

	if err := c.hub.Apply(cmd); err != nil {
		c.reject(env.Kind, err)
	}
}

// reject echoes a typed failure to this client.
func (c *Client) reject(kind string, err error) {
	select {
	case c.send <- EncodeRejection(kind, err):
	default:
		metrics.Get().RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
