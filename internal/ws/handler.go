package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/monitoring"
	"github.com/byof/framehost/internal/sandbox/bridge"
	"github.com/byof/framehost/internal/sandbox/session"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // host origin is enforced per message by the frame token
	},
}

// Handler manages host WebSocket connections.
type Handler struct {
	sessions *session.Manager
	hub      *Hub
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandler creates a WebSocket handler.
func NewHandler(sessions *session.Manager, hub *Hub, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handler{
		sessions: sessions,
		hub:      hub,
		metrics:  metrics,
		logger:   logger.Named("ws"),
	}
}

// HandleConnection upgrades a host connection for one session's bridge
// stream. Inbound messages are raw frame envelopes; the dispatcher drops
// anything that fails frame-token validation.
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := c.Param("id")

	s, ok := h.sessions.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.SetWSConnections(1)
	defer h.metrics.SetWSConnections(-1)

	events, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	done := make(chan struct{})
	go h.writeLoop(conn, events, done)
	defer close(done)

	h.logger.Info("bridge stream opened", zap.String("session_id", sessionID))
	h.readLoop(conn, s)
	h.logger.Info("bridge stream closed", zap.String("session_id", sessionID))
}

// readLoop relays inbound envelopes to the session's dispatcher.
func (h *Handler) readLoop(conn *websocket.Conn, s *session.Session) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.String("session_id", s.ID()), zap.Error(err))
			}
			return
		}

		var env bridge.Envelope
		if err := sonic.Unmarshal(data, &env); err != nil {
			h.metrics.RecordBridgeMessage("unknown", "malformed")
			h.logger.Warn("malformed envelope",
				zap.String("session_id", s.ID()),
				zap.Error(err),
			)
			continue
		}

		h.metrics.RecordBridgeMessage(string(env.Type), "received")
		s.Dispatcher().Dispatch(env)
	}
}

// writeLoop pushes hub events out until the connection or hub side closes.
func (h *Handler) writeLoop(conn *websocket.Conn, events <-chan Event, done <-chan struct{}) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
