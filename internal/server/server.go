package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/byof/framehost/internal/clients/chat"
	"github.com/byof/framehost/internal/clients/persist"
	"github.com/byof/framehost/internal/config"
	"github.com/byof/framehost/internal/exports"
	handlers "github.com/byof/framehost/internal/http"
	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/middleware"
	"github.com/byof/framehost/internal/monitoring"
	"github.com/byof/framehost/internal/sandbox/bridge"
	"github.com/byof/framehost/internal/sandbox/session"
	"github.com/byof/framehost/internal/ws"
)

// Server wraps the HTTP server and its sandbox services.
type Server struct {
	router   *gin.Engine
	httpSrv  *http.Server
	sessions *session.Manager
	store    *exports.Store
	logger   *logging.Logger
}

// New creates a fully wired server from configuration.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	// The bridge script is a compile-time constant of the binary; refuse
	// to start if it does not parse as JavaScript.
	if err := bridge.VerifyScript(bridge.ScriptOptions{FrameToken: "frame_boot-check"}); err != nil {
		return nil, fmt.Errorf("bridge script verification: %w", err)
	}

	profiles, err := config.LoadProfiles(cfg.Profiles.Path)
	if err != nil {
		return nil, fmt.Errorf("load sandbox profiles: %w", err)
	}
	if len(profiles) > 0 {
		logger.Info("sandbox profiles loaded", zap.Int("count", len(profiles)))
	}

	metrics := monitoring.New()
	store := exports.New(cfg.Exports.TTL, logger)
	store.Observe(metrics.SetExportsLive)
	sessions := session.NewManager(store, logger)
	hub := ws.NewHub()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	h := handlers.NewHandlers(sessions, store, profiles, hub, metrics, logger)
	if cfg.Clients.ChatEndpoint != "" {
		h = h.WithChat(chat.New(cfg.Clients.ChatEndpoint, cfg.Clients.ChatTimeout))
		logger.Info("generation endpoint configured", zap.String("endpoint", cfg.Clients.ChatEndpoint))
	}
	if cfg.Clients.PersistEndpoint != "" {
		h = h.WithPersist(persist.New(cfg.Clients.PersistEndpoint, cfg.Clients.PersistTimeout))
		logger.Info("persistence endpoint configured", zap.String("endpoint", cfg.Clients.PersistEndpoint))
	}
	wsHandler := ws.NewHandler(sessions, hub, metrics, logger)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Document pipeline
	router.POST("/prepare", h.PrepareDocument)
	router.POST("/validate", h.ValidateDocument)
	router.POST("/generate", h.GenerateApp)

	// Session lifecycle
	router.POST("/sessions", h.CreateSession)
	router.GET("/sessions", h.ListSessions)
	router.GET("/sessions/:id", h.GetSession)
	router.POST("/sessions/:id/load", h.LoadDocument)
	router.POST("/sessions/:id/clear", h.ClearSession)
	router.POST("/sessions/:id/fullscreen", h.ToggleFullscreen)
	router.DELETE("/sessions/:id", h.DestroySession)
	router.GET("/sessions/:id/document", h.GetDocument)

	// Persistence
	router.POST("/sessions/:id/save", h.SaveApp)
	router.POST("/sessions/:id/restore", h.RestoreApp)

	// Exports
	router.POST("/sessions/:id/export", h.ExportDocument)
	router.GET("/exports/:token", h.ServeExport)

	// WebSocket bridge
	router.GET("/stream/:id", wsHandler.HandleConnection)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		router:   router,
		httpSrv:  &http.Server{Addr: addr, Handler: router},
		sessions: sessions,
		store:    store,
		logger:   logger,
	}, nil
}

// Router exposes the assembled routes, used by tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts serving and blocks until the listener closes.
func (s *Server) Run() error {
	s.logger.Info("server starting", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then destroys every session and
// revokes all staged exports.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	s.sessions.DestroyAll()
	s.store.Close()
	return err
}
