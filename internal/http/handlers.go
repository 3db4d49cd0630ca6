package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/byof/framehost/internal/clients/chat"
	"github.com/byof/framehost/internal/clients/persist"
	"github.com/byof/framehost/internal/config"
	"github.com/byof/framehost/internal/exports"
	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/monitoring"
	"github.com/byof/framehost/internal/sandbox/bridge"
	"github.com/byof/framehost/internal/sandbox/document"
	"github.com/byof/framehost/internal/sandbox/session"
	"github.com/byof/framehost/internal/shared/id"
	"github.com/byof/framehost/internal/shared/types"
	"github.com/byof/framehost/internal/ws"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	sessions *session.Manager
	exports  *exports.Store
	profiles map[string]config.Profile
	hub      *ws.Hub
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	started  time.Time

	// Optional collaborators; nil disables their routes.
	chat    *chat.Client
	persist *persist.Client
}

// WithChat attaches the generation endpoint client.
func (h *Handlers) WithChat(c *chat.Client) *Handlers {
	h.chat = c
	return h
}

// WithPersist attaches the save/load endpoint client.
func (h *Handlers) WithPersist(c *persist.Client) *Handlers {
	h.persist = c
	return h
}

// NewHandlers creates a new handler set.
func NewHandlers(
	sessions *session.Manager,
	store *exports.Store,
	profiles map[string]config.Profile,
	hub *ws.Hub,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handlers{
		sessions: sessions,
		exports:  store,
		profiles: profiles,
		hub:      hub,
		metrics:  metrics,
		logger:   logger.Named("http"),
		started:  time.Now(),
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "framehost",
		"version": "0.1.0",
	})
}

// Health handles the detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"sessions":     h.sessions.Stats(),
		"live_exports": h.exports.Len(),
		"uptime_sec":   int(time.Since(h.started).Seconds()),
	})
}

// PrepareDocument runs the one-shot preparation pipeline.
func (h *Handlers) PrepareDocument(c *gin.Context) {
	var req types.PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := session.Prepare(req.HTML, session.PrepareOptions{
		AllowedOrigins: req.AllowedOrigins,
		AllowEval:      req.AllowEval,
	})
	if err != nil {
		var sbErr *session.SandboxError
		if errors.As(err, &sbErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sbErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"html":         res.HTML,
		"csp_injected": res.CSPInjected,
	})
}

// ValidateDocument returns the advisory validation report.
func (h *Handlers) ValidateDocument(c *gin.Context) {
	var req types.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, document.Validate(req.HTML))
}

// CreateSession registers a new sandbox session.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := session.Config{
		AllowedOrigins: req.AllowedOrigins,
		AllowEval:      req.AllowEval,
		HostOrigin:     req.HostOrigin,
	}
	if req.Profile != "" {
		profile, ok := h.profiles[req.Profile]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown profile: " + req.Profile})
			return
		}
		if len(cfg.AllowedOrigins) == 0 {
			cfg.AllowedOrigins = profile.AllowedOrigins
		}
		if cfg.HostOrigin == "" {
			cfg.HostOrigin = profile.HostOrigin
		}
		cfg.AllowEval = cfg.AllowEval || profile.AllowEval
	}

	s := h.sessions.CreateFunc(cfg, h.bridgeCallbacks)
	h.metrics.RecordSessionCreated()

	c.JSON(http.StatusOK, sessionInfo(s))
}

// bridgeCallbacks routes validated frame messages for one session to the
// host's stream subscribers.
func (h *Handlers) bridgeCallbacks(sessionID string) bridge.Callbacks {
	return bridge.Callbacks{
		OnError: func(msg bridge.ErrorMessage) {
			h.metrics.RecordBridgeMessage(string(bridge.KindError), "delivered")
			h.logger.Warn("frame error",
				zap.String("session_id", sessionID),
				zap.String("message", msg.Message),
				zap.String("filename", msg.Filename),
				zap.Int("line", msg.Line),
			)
			h.hub.Publish(ws.Event{Type: string(bridge.KindError), SessionID: sessionID, Payload: msg})
		},
		OnResize: func(msg bridge.ResizeMessage) {
			h.metrics.RecordBridgeMessage(string(bridge.KindResize), "delivered")
			h.hub.Publish(ws.Event{Type: string(bridge.KindResize), SessionID: sessionID, Payload: msg})
		},
		OnNavigate: func(msg bridge.NavigateMessage) {
			h.metrics.RecordBridgeMessage(string(bridge.KindNavigate), "delivered")
			h.logger.Info("frame navigation request",
				zap.String("session_id", sessionID),
				zap.String("url", msg.URL),
			)
			h.hub.Publish(ws.Event{Type: string(bridge.KindNavigate), SessionID: sessionID, Payload: msg})
		},
	}
}

// ListSessions lists all registered sessions.
func (h *Handlers) ListSessions(c *gin.Context) {
	all := h.sessions.List()
	infos := make([]types.SessionInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, sessionInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": infos,
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns one session's snapshot.
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionInfo(s))
}

// LoadDocument prepares and assigns a document to the session's frame.
func (h *Handlers) LoadDocument(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req types.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.LoadWith(c.Request.Context(), req.HTML, req.Credentials); err != nil {
		switch {
		case errors.Is(err, session.ErrSessionDestroyed):
			h.metrics.RecordLoad("destroyed")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			var sbErr *session.SandboxError
			if errors.As(err, &sbErr) {
				h.metrics.RecordLoad("rejected")
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sbErr.Error()})
				return
			}
			h.metrics.RecordLoad("error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.metrics.RecordLoad("ok")
	h.hub.Publish(ws.Event{Type: "frame:load", SessionID: s.ID()})
	c.JSON(http.StatusOK, sessionInfo(s))
}

// ClearSession resets the session's frame to an empty document.
func (h *Handlers) ClearSession(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	if err := s.Clear(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	h.hub.Publish(ws.Event{Type: "frame:clear", SessionID: s.ID()})
	c.JSON(http.StatusOK, sessionInfo(s))
}

// ToggleFullscreen flips the session's fullscreen flag.
func (h *Handlers) ToggleFullscreen(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	active := s.ToggleFullscreen()
	h.hub.Publish(ws.Event{Type: "frame:fullscreen", SessionID: s.ID(), Payload: gin.H{"active": active}})

	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID(),
		"fullscreen": active,
	})
}

// DestroySession terminates a session.
func (h *Handlers) DestroySession(c *gin.Context) {
	sessionID := c.Param("id")
	if !id.HasPrefix(sessionID, id.SessionPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	if !h.sessions.Destroy(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	h.metrics.RecordSessionDestroyed()
	h.hub.Publish(ws.Event{Type: "frame:destroy", SessionID: sessionID})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// GetDocument serves the session's current prepared document.
func (h *Handlers) GetDocument(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	doc, ok := s.ExtractCurrentDocument()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no document loaded"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

// ExportDocument stages a document for a new tab or a download and returns
// its one-time URL.
func (h *Handlers) ExportDocument(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req types.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origins := req.AllowedOrigins
	if origins == nil {
		origins = s.AllowedOrigins()
	}

	var (
		token string
		err   error
	)
	mode := req.Mode
	if mode == "" {
		mode = string(exports.ModeTab)
	}
	switch exports.Mode(mode) {
	case exports.ModeTab:
		token, err = h.sessions.OpenInNewTab(req.HTML, origins)
	case exports.ModeDownload:
		token, err = h.sessions.Download(req.HTML, req.Filename, origins)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export mode: " + req.Mode})
		return
	}
	if err != nil {
		var sbErr *session.SandboxError
		if errors.As(err, &sbErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sbErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordExport(mode)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"url":   "/exports/" + token,
		"mode":  mode,
	})
}

// ServeExport exchanges an export token for its document. The entry is
// revoked afterwards; every token serves at most once.
func (h *Handlers) ServeExport(c *gin.Context) {
	token := c.Param("token")
	if !id.HasPrefix(token, id.ExportPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export token"})
		return
	}

	doc, ok := h.exports.Get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "export not found or expired"})
		return
	}
	defer h.exports.Revoke(token)

	if doc.Mode == exports.ModeDownload {
		c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// lookupSession resolves the :id path param, writing the error response on
// failure.
func (h *Handlers) lookupSession(c *gin.Context) (*session.Session, bool) {
	sessionID := c.Param("id")
	if !id.HasPrefix(sessionID, id.SessionPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}

	s, ok := h.sessions.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

// sessionInfo snapshots a session for API responses.
func sessionInfo(s *session.Session) types.SessionInfo {
	return types.SessionInfo{
		ID:          s.ID(),
		State:       string(s.State()),
		Empty:       s.IsEmpty(),
		Fullscreen:  s.IsFullscreen(),
		SandboxAttr: s.Frame().SandboxAttr(),
		FrameToken:  s.Frame().Token(),
		CreatedAt:   s.CreatedAt(),
	}
}

// GenerateApp requests a generated document from the chat endpoint. With a
// session ID the document is loaded straight into that session; without
// one the prepared document is returned for the caller to place.
func (h *Handlers) GenerateApp(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation endpoint not configured"})
		return
	}

	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.chat.Generate(c.Request.Context(), chat.Request{
		Prompt:  req.Prompt,
		Context: req.Context,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if req.SessionID == "" {
		res, err := session.Prepare(app.HTML, session.PrepareOptions{
			AllowedOrigins: req.AllowedOrigins,
		})
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"html":  res.HTML,
			"title": app.Title,
		})
		return
	}

	s, ok := h.sessions.Get(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err := s.Load(c.Request.Context(), app.HTML); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordLoad("ok")
	h.hub.Publish(ws.Event{Type: "frame:load", SessionID: s.ID()})
	c.JSON(http.StatusOK, gin.H{
		"title":   app.Title,
		"session": sessionInfo(s),
	})
}

// SaveApp persists the session's current document with its conversation
// state and returns the storage ID.
func (h *Handlers) SaveApp(c *gin.Context) {
	if h.persist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence endpoint not configured"})
		return
	}

	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req types.SaveAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The raw document round-trips; a restore re-runs preparation instead
	// of stacking policies on an already prepared document.
	doc := s.RawHTML()
	if doc == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no document loaded"})
		return
	}

	appID, err := h.persist.Save(c.Request.Context(), persist.SavedApp{
		HTML:     doc,
		Messages: req.Messages,
		APISpec:  req.APISpec,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"app_id":  appID,
	})
}

// RestoreApp loads a previously saved app into the session's frame.
func (h *Handlers) RestoreApp(c *gin.Context) {
	if h.persist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence endpoint not configured"})
		return
	}

	s, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req types.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.persist.Load(c.Request.Context(), req.AppID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := s.Load(c.Request.Context(), app.HTML); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordLoad("ok")
	h.hub.Publish(ws.Event{Type: "frame:load", SessionID: s.ID()})
	c.JSON(http.StatusOK, gin.H{
		"app_id":  req.AppID,
		"session": sessionInfo(s),
	})
}
