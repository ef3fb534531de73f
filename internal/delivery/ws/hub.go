package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// client owns the only writer of its connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub groups websocket connections into rooms, one room per owner
// mobile number.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*websocket.Conn]*client
	log   *logger.ZapLogger
}

func NewHub(log *logger.ZapLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]*client),
		log:   log,
	}
}

func (h *Hub) Register(roomID string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]*client)
	}
	h.rooms[roomID][conn] = c
	conns := len(h.rooms[roomID])
	h.mu.Unlock()

	go h.writePump(roomID, c)

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "ws register",
		Fields:  map[string]any{"room": roomID, "conns": conns},
	})
}

func (h *Hub) writePump(roomID string, c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "ws send failed",
				Error:   err,
				Fields:  map[string]any{"room": roomID},
			})
			// The reader sees the close and unregisters.
			c.conn.Close()
			return
		}
	}
}

func (h *Hub) Unregister(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	if c, ok := conns[conn]; ok {
		delete(conns, conn)
		close(c.send)
		conn.Close()
	}

	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "ws unregister",
		Fields:  map[string]any{"room": roomID, "conns": len(conns)},
	})
}

// Count reports the live connections in a room.
func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// SendToRoom queues msg for every connection in the room without waiting on
// the network. A connection whose queue is full is closed.
func (h *Hub) SendToRoom(roomID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, c := range h.rooms[roomID] {
		select {
		case c.send <- msg:
		default:
			h.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "ws client too slow, dropping",
				Fields:  map[string]any{"room": roomID},
			})
			conn.Close()
		}
	}
}

// Close drops every connection. Hijacked websocket connections are not
// touched by http.Server.Shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID, conns := range h.rooms {
		for conn, c := range conns {
			close(c.send)
			conn.Close()
		}
		delete(h.rooms, roomID)
	}
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
