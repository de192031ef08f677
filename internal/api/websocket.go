package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/config"
	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/logging"
)

// Wire-level message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// ChannelConfigChanged carries every configuration mutation (persist,
// delete, import) to subscribed editor sessions.
const ChannelConfigChanged = "config.changed"

// sessionSendBuffer is the per-session outbound queue; a session that
// falls this far behind starts losing events rather than blocking the
// broadcaster.
const sessionSendBuffer = 256

// WSMessage is the envelope for everything crossing the socket.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload lists channels for subscribe and unsubscribe
// requests.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// Hub fans configuration events out to connected editor sessions.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[*wsSession]struct{}
}

// wsSession is one connected websocket client and its channel
// subscriptions.
type wsSession struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.RWMutex
	channels map[string]struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks happen in the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[*wsSession]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every session.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for sess := range h.sessions {
		close(sess.send)
		if sess.conn != nil {
			sess.conn.Close()
		}
		delete(h.sessions, sess)
	}
}

func (h *Hub) attach(sess *wsSession) {
	h.mu.Lock()
	h.sessions[sess] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket session opened", "sessions", h.ClientCount())
}

// detach removes the session; only the caller that actually removed it
// closes the send channel, so shutdown and read errors cannot race into
// a double close.
func (h *Hub) detach(sess *wsSession) {
	h.mu.Lock()
	_, present := h.sessions[sess]
	delete(h.sessions, sess)
	h.mu.Unlock()

	if present {
		close(sess.send)
	}
	h.logger.Debug("websocket session closed", "sessions", h.ClientCount())
}

// Broadcast delivers payload to every session subscribed to channel.
// The session list is snapshotted first so no session lock is taken
// while the hub lock is held.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("broadcast marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*wsSession, 0, len(h.sessions))
	for sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sess := range targets {
		if sess.subscribed(channel) {
			sess.offer(data)
			delivered++
		}
	}
	if delivered > 0 {
		h.logger.Debug("broadcast", "channel", channel, "recipients", delivered)
	}
}

// ClientCount returns the number of open sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// handleWebSocket upgrades the request and starts the session pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &wsSession{
		hub:      s.hub,
		conn:     conn,
		send:     make(chan []byte, sessionSendBuffer),
		channels: make(map[string]struct{}),
	}
	s.hub.attach(sess)

	go sess.writeLoop(s.wsCfg)
	go sess.readLoop(s.wsCfg)
}

func (c *wsSession) readLoop(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	deadline := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(deadline)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any inbound traffic proves the peer is alive, pong or not.
		c.conn.SetReadDeadline(time.Now().Add(deadline)) //nolint:errcheck
		c.dispatch(raw)
	}
}

func (c *wsSession) writeLoop(cfg config.WebSocketConfig) {
	ticker := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	writeWait := time.Duration(cfg.PongTimeout) * time.Second
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil) //nolint:errcheck
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsSession) dispatch(raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.fail("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case WSTypeSubscribe:
		c.updateChannels(msg, true)
	case WSTypeUnsubscribe:
		c.updateChannels(msg, false)
	case WSTypePing:
		c.reply(msg.ID, WSTypePong, nil)
	default:
		c.fail(msg.ID, "unknown message type: "+msg.Type)
	}
}

// updateChannels handles both subscribe and unsubscribe, which differ
// only in map direction and the response key.
func (c *wsSession) updateChannels(msg WSMessage, add bool) {
	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		c.fail(msg.ID, "invalid payload")
		return
	}
	var payload WSSubscribePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.fail(msg.ID, "invalid subscribe payload")
		return
	}

	c.mu.Lock()
	for _, ch := range payload.Channels {
		if add {
			c.channels[ch] = struct{}{}
		} else {
			delete(c.channels, ch)
		}
	}
	c.mu.Unlock()

	key := "unsubscribed"
	if add {
		key = "subscribed"
		c.hub.logger.Info("websocket subscription", "channels", payload.Channels)
	}
	c.reply(msg.ID, WSTypeResponse, map[string]any{key: payload.Channels})
}

func (c *wsSession) subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.channels[channel]
	return ok
}

// offer queues data without blocking: a full buffer drops the event and
// a closed channel (session going away mid-broadcast) is absorbed.
func (c *wsSession) offer(data []byte) {
	defer func() { recover() }() //nolint:errcheck

	select {
	case c.send <- data:
	default:
	}
}

func (c *wsSession) reply(id, msgType string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return
	}
	c.offer(data)
}

func (c *wsSession) fail(id, message string) {
	c.reply(id, WSTypeError, map[string]string{"message": message})
}
