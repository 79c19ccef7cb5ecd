// Package network carries the match over WebSocket: a hub broadcasting the
// event stream to every connected client, and a read path that funnels wire
// commands into the engine one at a time.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/principia-juego/server/internal/engine"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
	"github.com/principia-juego/server/internal/platform/metrics"
)

// inboundCommand pairs a decoded command with its reply channel.
type inboundCommand struct {
	cmd    engine.Command
	result chan error
}

// Hub maintains the set of active clients, broadcasts events to them, and
// serializes command application: every command from every transport goes
// through the Run loop, so the engine only ever sees one writer.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	commands   chan inboundCommand
	snapshots  chan chan engine.MatchSnapshot
	engine     *engine.Engine
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub around the authoritative engine.
func NewHub(eng *engine.Engine, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan inboundCommand),
		snapshots:  make(chan chan engine.MatchSnapshot),
		clients:    make(map[*Client]bool),
		engine:     eng,
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections, broadcasts
// and command application.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case in := <-h.commands:
			in.result <- h.engine.Apply(in.cmd)
		case req := <-h.snapshots:
			req <- h.engine.Snapshot()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					metrics.Get().RecordWSError()
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Apply routes one command through the hub's single-writer loop and returns
// the engine's verdict. Safe to call from any goroutine while Run is active.
func (h *Hub) Apply(cmd engine.Command) error {
	result := make(chan error, 1)
	h.commands <- inboundCommand{cmd: cmd, result: result}
	return <-result
}

// Snapshot returns a state snapshot taken between commands, never mid-apply.
func (h *Hub) Snapshot() engine.MatchSnapshot {
	req := make(chan engine.MatchSnapshot, 1)
	h.snapshots <- req
	return <-req
}

// BroadcastEvent serializes a GameEvent and sends it to all connected clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize GameEvent for WebSocket broadcast: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the event log and pushes new
// events to the Hub. The poller tracks its cursor by sequence number, so it
// picks up exactly the events appended since the last pass.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.Log) {
	go func() {
		poll := time.NewTicker(200 * time.Millisecond)
		defer poll.Stop()

		var cursor int64

		for {
			select {
			case <-ctx.Done():
				return
			case <-poll.C:
				for _, event := range eventLog.Since(cursor) {
					h.BroadcastEvent(event)
					cursor = event.Seq
				}
			}
		}
	}()
}
