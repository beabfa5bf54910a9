package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeTimeout = 10 * time.Second
	// Slow subscribers are dropped once their send queue fills.
	sendQueueSize = 16
)

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans delivery-change events out to every connected screen. Both
// the restaurant dashboard and the courier phones keep one subscription
// open and re-render whenever a message arrives.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

// ClientCount reports the number of open subscriptions.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastJSON serializes the payload once and queues it to every
// subscriber. Subscribers whose queue is full are disconnected rather
// than allowed to stall the rest.
func (h *Hub) BroadcastJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, id)
			close(c.send)
		}
	}
	return nil
}

// HandleSubscribe upgrades the connection to a WebSocket and streams
// change events until the client disconnects.
func (h *Hub) HandleSubscribe(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	h.register(cl)

	go cl.writePump()

	// Inbound frames are ignored; reading only serves to detect the close.
	go func() {
		defer h.unregister(cl.id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeTimeout))
}

// AllowOrigins restricts websocket upgrades to the given origin. An
// empty origin keeps the library default (same-origin only).
func AllowOrigins(origin string) {
	if origin == "" {
		return
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return r.Header.Get("Origin") == origin
	}
}
