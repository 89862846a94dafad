package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"weatherapp/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	wsTypeState = "state"
	wsTypeError = "error"
	wsTypeFetch = "fetch"
)

// Envelope used for outgoing WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsCommand is an incoming client message, e.g. {"type":"fetch","city":"London"}.
type wsCommand struct {
	Type string `json:"type"`
	City string `json:"city"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the screen is served from a fixed host
}

// wsConnect streams every result transition to the client. The client may
// submit lookups over the same socket.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	updates, unsubscribe := h.services.Monitoring.Subscribe()
	defer unsubscribe()

	// Reader goroutine handles control frames, client commands and disconnects.
	// gorilla allows one concurrent writer, so command errors go back via replies.
	done := make(chan struct{})
	replies := make(chan string, 4)
	go h.startReader(c.Request.Context(), conn, done, replies)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Send initial state immediately.
	if err := h.sendState(conn, h.services.Monitoring.Current()); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case msg := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: msg}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case r, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendState(conn, r); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages, dispatching fetch commands, until
// the connection closes.
func (h *Handler) startReader(ctx context.Context, conn *websocket.Conn, done chan<- struct{}, replies chan<- string) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if msg := h.handleCommand(ctx, raw); msg != "" {
			select {
			case replies <- msg:
			default: // writer is behind; drop the reply
			}
		}
	}
}

// handleCommand runs one client command and returns an error text for the
// client, or "" on success.
func (h *Handler) handleCommand(ctx context.Context, raw []byte) string {
	var cmd wsCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return "invalid message: " + err.Error()
	}
	switch cmd.Type {
	case wsTypeFetch:
		if err := h.services.Weather.Fetch(ctx, cmd.City); err != nil {
			return err.Error()
		}
		return ""
	default:
		return "unknown message type: " + cmd.Type
	}
}

// sendState writes one result with a write deadline.
func (h *Handler) sendState(conn *websocket.Conn, r models.Result) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: wsTypeState, Data: r})
}
