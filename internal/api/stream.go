package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/mission"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

const (
	writeWait  = 10 * time.Second
	sendChSize = 64
)

// Envelope wraps every message on the frame stream with a type tag.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Stream message types.
const (
	TypeFrame    = "frame"
	TypeEvent    = "event"
	TypeControls = "controls"
	TypePause    = "pause"
	TypeReset    = "reset"
)

// StreamHandler maintains websocket clients, broadcasts mission frames
// and combat events to them, and applies inbound control messages.
// Each client gets a single write goroutine; slow clients drop frames
// rather than stalling the broadcast.
type StreamHandler struct {
	log      *slog.Logger
	mission  *mission.Mission
	upgrader ws.Upgrader

	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

type streamClient struct {
	conn   *ws.Conn
	sendCh chan []byte
}

func NewStreamHandler(log *slog.Logger, m *mission.Mission) *StreamHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StreamHandler{
		log:     log,
		mission: m,
		upgrader: ws.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*streamClient]struct{}),
	}
}

// HandleWS upgrades the connection and serves it until it closes.
func (h *StreamHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &streamClient{
		conn:   conn,
		sendCh: make(chan []byte, sendChSize),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("stream client connected", "clients", n)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *StreamHandler) writeLoop(c *streamClient) {
	for msg := range c.sendCh {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(ws.TextMessage, msg); err != nil {
			break
		}
	}
	_ = c.conn.Close()
}

func (h *StreamHandler) readLoop(c *streamClient) {
	defer h.drop(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleInbound(msg)
	}
}

func (h *StreamHandler) handleInbound(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Warn("malformed stream message", "error", err)
		return
	}
	switch env.Type {
	case TypeControls:
		var req controlsRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			h.log.Warn("malformed controls payload", "error", err)
			return
		}
		h.mission.SetControls(sim.Controls{
			Pitch:    req.Pitch,
			Roll:     req.Roll,
			Throttle: req.Throttle,
			Firing:   req.Firing,
		})
	case TypePause:
		var req pauseRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			h.log.Warn("malformed pause payload", "error", err)
			return
		}
		h.mission.SetPaused(req.Paused)
	case TypeReset:
		h.mission.Reset()
	default:
		h.log.Warn("unknown stream message type", "type", env.Type)
	}
}

func (h *StreamHandler) drop(c *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.sendCh)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("stream client disconnected", "clients", n)
}

// BroadcastFrame sends the frame to every connected client.
func (h *StreamHandler) BroadcastFrame(f mission.Frame) {
	h.broadcast(TypeFrame, f)
}

// Publish implements combat.EventSink: combat events go out on the
// stream as they happen.
func (h *StreamHandler) Publish(e combat.Event) {
	h.broadcast(TypeEvent, e)
}

func (h *StreamHandler) broadcast(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal stream payload", "type", msgType, "error", err)
		return
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		h.log.Error("failed to marshal stream envelope", "type", msgType, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.sendCh <- data:
		default:
			// Slow client; skip this message.
		}
	}
}

// ClientCount returns the number of connected stream clients.
func (h *StreamHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
