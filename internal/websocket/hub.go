// Package websocket pushes quality-run and variable-generation events to
// connected review UIs. A single Hub fans broadcast messages out to every
// registered client.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"epiqc/internal/config"
	"epiqc/internal/infrastructure"
)

// Message type constants understood by review clients.
const (
	TypeConnection        = "connection"
	TypeCheckRunStarted   = "checks:started"
	TypeCheckRunComplete  = "checks:complete"
	TypeVariableGenerated = "variable:generated"
)

// Message is the envelope broadcast to clients.
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	cfg    config.WebSocketConfig
	mu     sync.RWMutex
	logger *slog.Logger

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance. Zero-valued config fields fall back
// to the built-in buffer sizes and ping/pong periods.
func NewHub(cfg config.WebSocketConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) pongWait() time.Duration {
	if h.cfg.PongWait > 0 {
		return h.cfg.PongWait
	}
	return defaultPongWait
}

// pingPeriod keeps pings comfortably inside the pong deadline even when
// only one of the two is configured.
func (h *Hub) pingPeriod() time.Duration {
	period := h.cfg.PingPeriod
	if period <= 0 {
		period = defaultPingPeriod
	}
	if wait := h.pongWait(); period >= wait {
		period = wait * 9 / 10
	}
	return period
}

func (h *Hub) readBufferSize() int {
	if h.cfg.ReadBufferSize > 0 {
		return h.cfg.ReadBufferSize
	}
	return defaultBufferSize
}

func (h *Hub) writeBufferSize() int {
	if h.cfg.WriteBufferSize > 0 {
		return h.cfg.WriteBufferSize
	}
	return defaultBufferSize
}

// Start launches the hub loop. Calling Start twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop terminates the hub loop and disconnects all clients.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.Int("active_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client unregistered",
				slog.String("client_id", client.id),
				slog.Int("active_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block the hub.
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a typed event to every connected client.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      messageType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("type", messageType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast channel full, message dropped",
			slog.String("type", messageType))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
