package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"venuebook/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection is one websocket client subscribed to a set of topics.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
}

// Hub fans state-change payloads out to subscribed connections. The sender
// never receives its own broadcast: the acting party updates optimistically,
// only remote parties reconcile over the channel.
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]struct{}
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[*connection]struct{}),
		log:   log,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
	metrics.WSConnections.Inc()
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
		metrics.WSConnections.Dec()
	}
}

// Broadcast delivers the payload to every subscriber of the topic except the
// sender. Slow clients are skipped rather than blocking the caller.
func (h *Hub) Broadcast(topic string, senderID int64, action, message string) {
	data, err := json.Marshal(Payload{
		V:       payloadVersion,
		Topic:   topic,
		Action:  action,
		Message: message,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if c.userID == senderID || !c.topics[topic] {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client too slow; it will refetch on reconnect.
		}
	}
}

// ServeConn registers the connection and blocks until it disconnects.
func (h *Hub) ServeConn(conn *websocket.Conn, userID int64, topics []string) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
		topics: make(map[string]bool, len(topics)),
	}
	for _, t := range topics {
		c.topics[t] = true
	}

	h.register(c)
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Clients only listen on this channel; reads exist to detect close
		// and keep pong handling alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Int64("user_id", c.userID).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// Close disconnects every client, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.conn.Close()
		delete(h.conns, c)
		close(c.send)
		metrics.WSConnections.Dec()
	}
}
