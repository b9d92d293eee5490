package server

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 4
)

// ReloadMessage is sent as a text frame after the scene has been rebuilt
const ReloadMessage = "reload"

type message struct {
	typ  int
	data []byte
}

// client is one websocket connection. Its writer goroutine owns conn writes.
type client struct {
	conn *websocket.Conn
	send chan message
}

func (c *client) remote() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// Hub fans frames and notifications out to every connected client.
// A client that falls behind loses frames instead of stalling the loop, but
// never a text message.
type Hub struct {
	log     *slog.Logger
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log.With("component", "hub"),
		clients: make(map[*client]struct{}),
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan message, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	go h.writePump(c)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for m := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(m.typ, m.data); err != nil {
			h.log.Debug("write failed", "remote", c.remote(), "err", err)
			h.unregister(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Broadcast queues data for every client. A full client skips frames, while
// text messages push queued frames out instead.
func (h *Hub) Broadcast(typ int, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.queue(c, message{typ: typ, data: data})
	}
}

// queue must be called with h.mu held. Only writePump receives from c.send
// outside the lock, so refilling after a drain never blocks.
func (h *Hub) queue(c *client, m message) {
	select {
	case c.send <- m:
		return
	default:
	}
	if m.typ == websocket.BinaryMessage {
		return
	}
	kept := make([]message, 0, sendBuffer+1)
	for drained := false; !drained; {
		select {
		case q := <-c.send:
			if q.typ != websocket.BinaryMessage {
				kept = append(kept, q)
			}
		default:
			drained = true
		}
	}
	kept = append(kept, m)
	if len(kept) > sendBuffer {
		// the page resyncs its controls when it reconnects
		h.log.Warn("client not reading, disconnecting", "remote", c.remote())
		delete(h.clients, c)
		close(c.send)
		return
	}
	for _, q := range kept {
		c.send <- q
	}
}

// Notify sends a text message to every client
func (h *Hub) Notify(text string) {
	h.Broadcast(websocket.TextMessage, []byte(text))
}

// SendFrame encodes img as png and broadcasts it. Nothing is encoded while no one is connected.
func (h *Hub) SendFrame(img image.Image) {
	if h.Len() == 0 {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.log.Warn("could not encode frame", "err", err)
		return
	}
	h.Broadcast(websocket.BinaryMessage, buf.Bytes())
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
