package session

import (
	"sync"

	"github.com/byof/framehost/internal/exports"
	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/sandbox/bridge"
	"github.com/byof/framehost/internal/shared/id"
	"go.uber.org/zap"
)

// Manager orchestrates sandbox session lifecycles. Each session owns
// exactly one frame; no two sessions share one.
type Manager struct {
	sessions sync.Map
	exports  *exports.Store
	logger   *logging.Logger
}

// NewManager creates a session manager backed by an export store.
func NewManager(store *exports.Store, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{
		exports: store,
		logger:  logger,
	}
}

// Create registers a new session with its bridge callbacks.
func (m *Manager) Create(cfg Config, callbacks bridge.Callbacks) *Session {
	return m.CreateFunc(cfg, func(string) bridge.Callbacks { return callbacks })
}

// CreateFunc is Create for callers that need the session ID inside their
// callbacks. The factory runs once, before the session is registered.
func (m *Manager) CreateFunc(cfg Config, factory func(sessionID string) bridge.Callbacks) *Session {
	sessionID := id.NewSession()
	s := newSession(sessionID, id.NewFrameToken(), cfg, factory(sessionID), m.logger)
	m.sessions.Store(s.ID(), s)

	m.logger.Info("session created",
		zap.String("session_id", s.ID()),
		zap.Int("allowed_origins", len(cfg.AllowedOrigins)),
	)
	return s
}

// Get retrieves a session by ID.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	val, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// List returns all registered sessions, including destroyed ones that
// have not been removed yet.
func (m *Manager) List() []*Session {
	var sessions []*Session
	m.sessions.Range(func(_, value interface{}) bool {
		sessions = append(sessions, value.(*Session))
		return true
	})
	return sessions
}

// Destroy terminates a session and removes it from the registry.
func (m *Manager) Destroy(sessionID string) bool {
	s, ok := m.Get(sessionID)
	if !ok {
		return false
	}
	s.Destroy()
	m.sessions.Delete(sessionID)
	return true
}

// DestroyAll terminates every session. Used at shutdown.
func (m *Manager) DestroyAll() {
	m.sessions.Range(func(key, value interface{}) bool {
		value.(*Session).Destroy()
		m.sessions.Delete(key)
		return true
	})
}

// OpenInNewTab runs the preparation pipeline and stages the result for a
// new browsing context. Returns the export token the host exchanges for
// the document; the staged entry is revoked after a bounded delay.
func (m *Manager) OpenInNewTab(rawHTML string, allowedOrigins []string) (string, error) {
	res, err := Prepare(rawHTML, PrepareOptions{AllowedOrigins: allowedOrigins})
	if err != nil {
		return "", err
	}
	return m.exports.Put([]byte(res.HTML), exports.ModeTab, "")
}

// Download runs the preparation pipeline and stages the result as a file
// attachment under the given filename.
func (m *Manager) Download(rawHTML, filename string, allowedOrigins []string) (string, error) {
	res, err := Prepare(rawHTML, PrepareOptions{AllowedOrigins: allowedOrigins})
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = "generated-app.html"
	}
	return m.exports.Put([]byte(res.HTML), exports.ModeDownload, filename)
}

// Stats returns registry statistics for health reporting.
func (m *Manager) Stats() map[string]interface{} {
	var total, loaded, fullscreen int
	m.sessions.Range(func(_, value interface{}) bool {
		s := value.(*Session)
		total++
		if s.State() == StateLoaded {
			loaded++
		}
		if s.IsFullscreen() {
			fullscreen++
		}
		return true
	})

	return map[string]interface{}{
		"total_sessions":  total,
		"loaded_sessions": loaded,
		"fullscreen":      fullscreen,
		"live_exports":    m.exports.Len(),
	}
}
