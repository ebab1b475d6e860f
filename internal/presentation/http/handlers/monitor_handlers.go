package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/messaging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
)

// MonitorHandlers contains the health snapshot and websocket stream
// endpoints for the admin dashboard.
type MonitorHandlers struct {
	monitor     *monitoring.HealthMonitor
	broadcaster *messaging.HealthBroadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewMonitorHandlers creates monitor handlers with injected dependencies
func NewMonitorHandlers(monitor *monitoring.HealthMonitor, broadcaster *messaging.HealthBroadcaster, logger *logging.ChanneledLogger) *MonitorHandlers {
	return &MonitorHandlers{
		monitor:     monitor,
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth happens in middleware before the upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetHealth handles GET /api/v1/monitor/health - returns the current health
// entry for every monitored session.
func (h *MonitorHandlers) GetHealth(c *gin.Context) {
	snapshot := h.monitor.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"sessions":  snapshot,
		"count":     len(snapshot),
		"checkedAt": time.Now().UTC(),
	})
}

// GetHealthStream handles GET /api/v1/monitor/ws - upgrades to a websocket
// and streams health transitions plus periodic snapshots until the client
// disconnects.
func (h *MonitorHandlers) GetHealthStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Monitor().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := h.broadcaster.RegisterClient(conn)

	// Read pump: the stream is one-way, so inbound messages are discarded.
	// A read error means the client went away.
	go func() {
		defer h.broadcaster.UnregisterClient(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
