// apps/go-server/internal/notify/hub.go
//
// WebSocket broadcast of game state changes.
// Responsibilities:
//   - Upgrade GET /ws requests and keep track of connected observers.
//   - Fan every published notification out to matching observers.
//   - Never block the publisher: observers that fall behind are dropped.
//
// Observers may pass ?session=<key> to receive a single session's events;
// without it they receive everything.

package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/battleships/apps/go-server/internal/game"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Event is the JSON frame pushed to observers.
type Event struct {
	Type    string            `json:"type"`
	Session string            `json:"session"`
	Data    game.Notification `json:"data"`
}

type client struct {
	conn    *websocket.Conn
	session string
	send    chan []byte
}

// Hub implements session.Sink over WebSockets.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub builds a hub accepting connections from allowedOrigin
// ("" or "*" accepts any origin).
func NewHub(allowedOrigin string, log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return allowedOrigin == "" || allowedOrigin == "*" || o == "" || o == allowedOrigin
		}},
		log: log,
	}
}

// Publish queues n for every interested observer without blocking.
func (h *Hub) Publish(session string, n game.Notification) {
	msg, err := json.Marshal(Event{Type: "state", Session: session, Data: n})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal notification")
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if c.session != "" && c.session != session {
			continue
		}
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Str("session", session).Msg("dropping slow observer")
		h.remove(c)
	}
}

// Len reports the number of connected observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{conn: conn, session: r.URL.Query().Get("session"), send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// remove unregisters c and closes its queue; the write pump then closes
// the connection. Safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards inbound frames and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
