package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()

	e := echo.New()
	e.GET("/ws", hub.HandleSubscribe)
	srv := httptest.NewServer(e)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients (have %d)", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)

	require.NoError(t, hub.BroadcastJSON(map[string]any{
		"reference_date": "2024-03-05",
		"deliveries":     []string{},
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "2024-03-05", msg["reference_date"])
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub()
	assert.NoError(t, hub.BroadcastJSON(map[string]string{"ok": "yes"}))
}

func TestCoalesceDrainsBurst(t *testing.T) {
	events := make(chan struct{}, 10)
	for i := 0; i < 5; i++ {
		events <- struct{}{}
	}

	drained := 0
	coalesce(context.Background(), 50*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-events:
			drained++
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	assert.Equal(t, 5, drained)
	assert.Empty(t, events)
}

func TestCoalesceReturnsAfterQuietWindow(t *testing.T) {
	start := time.Now()
	coalesce(context.Background(), 30*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}
