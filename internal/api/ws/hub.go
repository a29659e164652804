package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Message types pushed to consoles.
const (
	MessageTable        = "table"
	MessageNotification = "notification"
	MessageDismissed    = "dismissed"
)

// Message is one push to the console.
type Message struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	HTML string `json:"html,omitempty"`
}

// conn is the subset of *websocket.Conn the pumps use.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Hub fans console updates out to every connected websocket.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
	done       chan struct{}
	logger     *zap.Logger
}

// NewHub creates an idle hub; call Run to start it.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("console connected", zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	_ = c.conn.Close()
}

// Broadcast queues msg for every client without blocking. Messages are
// dropped while the queue is full.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("ws: failed to marshal message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("ws: broadcast queue full; message dropped", zap.String("type", msg.Type))
	}
}

// Handler upgrades the request and serves one console until it disconnects.
func Handler(h *Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		serve(h, c)
	}
}

// serve returns only after both pumps stop; the conn is released once the
// upgrade handler returns.
func serve(h *Hub, c conn) {
	cl := newClient(h, c)
	select {
	case h.register <- cl:
	case <-h.done:
		return
	}
	go cl.writePump()
	cl.readPump()
	<-cl.stopped
}

type client struct {
	hub     *Hub
	conn    conn
	send    chan []byte
	stopped chan struct{}
}

func newClient(hub *Hub, c conn) *client {
	return &client{
		hub:     hub,
		conn:    c,
		send:    make(chan []byte, sendBufferSize),
		stopped: make(chan struct{}),
	}
}

// readPump discards inbound frames; it exists to process pongs and detect close.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
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

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.stopped)
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
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
