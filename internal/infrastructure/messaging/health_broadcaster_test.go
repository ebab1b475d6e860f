package messaging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.LogDirectory = t.TempDir()
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func newTestBroadcaster(t *testing.T, interval time.Duration) *HealthBroadcaster {
	t.Helper()
	logger := newTestLogger(t)
	monitor := monitoring.NewHealthMonitor(nil, probes.NewRegistry(), logger, time.Hour, 3, time.Second)
	return NewHealthBroadcaster(monitor, logger, interval)
}

// dialTestClient connects a real websocket through an httptest server and
// registers it with the broadcaster.
func dialTestClient(t *testing.T, b *HealthBroadcaster) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		b.RegisterClient(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTransitionBroadcastReachesClient(t *testing.T) {
	b := newTestBroadcaster(t, time.Hour)
	go b.Run()

	client := dialTestClient(t, b)

	evt := monitoring.HealthEvent{
		Platform:  session.PlatformMarketInOut,
		Key:       "k::marketinout",
		Previous:  session.HealthHealthy,
		Current:   session.HealthDegraded,
		Failures:  1,
		Timestamp: time.Now().UTC(),
	}
	b.Notify(evt)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}

	var payload HealthTransitionPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.Type != "transition" {
		t.Errorf("payload type = %q, want transition", payload.Type)
	}
	if payload.Event.Current != session.HealthDegraded {
		t.Errorf("event current = %s", payload.Event.Current)
	}
}

func TestPeriodicSnapshotBroadcast(t *testing.T) {
	b := newTestBroadcaster(t, 20*time.Millisecond)
	go b.Run()

	client := dialTestClient(t, b)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}

	var payload HealthSnapshotPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.Type != "snapshot" {
		t.Errorf("payload type = %q, want snapshot", payload.Type)
	}
}

func TestNotifyNeverBlocksWithoutConsumer(t *testing.T) {
	b := newTestBroadcaster(t, time.Hour) // Run never started

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			b.Notify(monitoring.HealthEvent{Key: "k", Timestamp: time.Now().UTC()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked once the event queue filled")
	}
}
