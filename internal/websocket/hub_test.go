package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epiqc/internal/config"
)

func newTestClient(hub *Hub) *Client {
	return &Client{
		hub:         hub,
		send:        make(chan []byte, 16),
		id:          "test-client",
		connectedAt: time.Now(),
		logger:      slog.Default(),
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, slog.Default())
	hub.Start()
	defer hub.Stop()

	client := newTestClient(hub)
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(TypeCheckRunComplete, map[string]int{"issues": 3})

	select {
	case payload := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, TypeCheckRunComplete, msg.Type)
		assert.False(t, msg.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, nil)
	hub.Start()
	defer hub.Stop()

	client := newTestClient(hub)
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.unregister <- client
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubStartIsIdempotent(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, nil)
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}

func TestHubUsesConfiguredTimings(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{
		ReadBufferSize:  4096,
		WriteBufferSize: 2048,
		PingPeriod:      20 * time.Second,
		PongWait:        45 * time.Second,
	}, nil)

	assert.Equal(t, 4096, hub.readBufferSize())
	assert.Equal(t, 2048, hub.writeBufferSize())
	assert.Equal(t, 20*time.Second, hub.pingPeriod())
	assert.Equal(t, 45*time.Second, hub.pongWait())
}

func TestHubTimingFallbacks(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, nil)

	assert.Equal(t, defaultBufferSize, hub.readBufferSize())
	assert.Equal(t, defaultBufferSize, hub.writeBufferSize())
	assert.Equal(t, defaultPongWait, hub.pongWait())
	assert.Equal(t, defaultPingPeriod, hub.pingPeriod())

	// A ping period at or above the pong wait is pulled back under it.
	clamped := NewHub(config.WebSocketConfig{
		PingPeriod: time.Minute,
		PongWait:   30 * time.Second,
	}, nil)
	assert.Equal(t, 27*time.Second, clamped.pingPeriod())
}
