// Package messaging pushes health state to connected dashboard clients over
// websockets.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
)

// HealthClient represents a single connected dashboard client.
type HealthClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// HealthSnapshotPayload is the periodic full-state message sent on each tick.
type HealthSnapshotPayload struct {
	Type     string                 `json:"type"`
	Sessions []session.HealthStatus `json:"sessions"`
	SentAt   time.Time              `json:"sentAt"`
}

// HealthTransitionPayload is the immediate message sent when a session
// changes health state.
type HealthTransitionPayload struct {
	Type  string                 `json:"type"`
	Event monitoring.HealthEvent `json:"event"`
}

// HealthBroadcaster manages connected clients and fans out monitor state:
// an immediate message per transition plus a periodic full snapshot.
type HealthBroadcaster struct {
	monitor    *monitoring.HealthMonitor
	logger     *logging.ChanneledLogger
	interval   time.Duration
	clients    map[*HealthClient]bool
	register   chan *HealthClient
	unregister chan *HealthClient
	events     chan monitoring.HealthEvent
	mu         sync.RWMutex
}

// NewHealthBroadcaster creates a broadcaster over the given monitor.
func NewHealthBroadcaster(monitor *monitoring.HealthMonitor, logger *logging.ChanneledLogger, interval time.Duration) *HealthBroadcaster {
	return &HealthBroadcaster{
		monitor:    monitor,
		logger:     logger,
		interval:   interval,
		clients:    make(map[*HealthClient]bool),
		register:   make(chan *HealthClient),
		unregister: make(chan *HealthClient),
		events:     make(chan monitoring.HealthEvent, 64),
	}
}

// Notify queues a health transition for broadcast. Safe to call from the
// monitor's probe goroutines; drops the event if the queue is full rather
// than blocking a probe.
func (b *HealthBroadcaster) Notify(evt monitoring.HealthEvent) {
	select {
	case b.events <- evt:
	default:
		b.logger.Alert().Warn("Health event queue full, dropping broadcast", "platform", evt.Platform)
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *HealthBroadcaster) Run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Monitor().Info("Health stream client connected")

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Monitor().Info("Health stream client disconnected")

		case evt := <-b.events:
			b.broadcast(HealthTransitionPayload{Type: "transition", Event: evt})

		case <-ticker.C:
			b.broadcast(HealthSnapshotPayload{
				Type:     "snapshot",
				Sessions: b.monitor.Snapshot(),
				SentAt:   time.Now().UTC(),
			})
		}
	}
}

// RegisterClient attaches a connected websocket and starts its write pump.
func (b *HealthBroadcaster) RegisterClient(conn *websocket.Conn) *HealthClient {
	client := &HealthClient{
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	b.register <- client
	go b.writePump(client)
	return client
}

// UnregisterClient detaches a client.
func (b *HealthBroadcaster) UnregisterClient(client *HealthClient) {
	b.unregister <- client
}

func (b *HealthBroadcaster) broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Monitor().Error("Failed to marshal health payload", "error", err.Error())
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.Send <- data:
		default:
			// Slow client; skip this message rather than stall the loop.
		}
	}
}

func (b *HealthBroadcaster) writePump(client *HealthClient) {
	defer client.Conn.Close()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
