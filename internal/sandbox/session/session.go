package session

import (
	"context"
	"sync"
	"time"

	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/resilience"
	"github.com/byof/framehost/internal/sandbox/bridge"
	"github.com/byof/framehost/internal/sandbox/document"
	"github.com/byof/framehost/internal/sandbox/frame"
	"github.com/byof/framehost/internal/shared/utils"
	"go.uber.org/zap"
)

// State is a session lifecycle state.
type State string

const (
	StateEmpty     State = "empty"
	StatePrepared  State = "prepared"
	StateLoaded    State = "loaded"
	StateCleared   State = "cleared"
	StateDestroyed State = "destroyed"
)

// CredentialResolver supplies auth headers immediately before a load. It
// is invoked fresh on every load, never cached, so refreshed tokens are
// always current. An empty map means no credential script is injected.
type CredentialResolver func(ctx context.Context) (map[string]string, error)

// Config is the host-supplied configuration for one session.
type Config struct {
	AllowedOrigins []string
	AllowEval      bool
	// HostOrigin is the postMessage target for the bridge script; empty
	// means "*" (required when the host origin is not determinable).
	HostOrigin string
	// Credentials resolves auth headers per load. Optional.
	Credentials CredentialResolver
}

// Session binds one frame element to one host for its lifetime. All
// lifecycle mutations on a session are serialized: two overlapping loads
// observe last-write-wins, never an interleaved document.
type Session struct {
	id         string
	frame      *frame.Frame
	dispatcher *bridge.Dispatcher
	cfg        Config
	logger     *logging.Logger
	creds      *resilience.Breaker
	createdAt  time.Time

	mu          sync.Mutex
	state       State
	currentHTML string
	rawHTML     string
	fullscreen  bool
}

func newSession(sessionID, frameToken string, cfg Config, callbacks bridge.Callbacks, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewDefault()
	}
	f := frame.New(frameToken)
	f.ConfigureIsolation()
	return &Session{
		id:         sessionID,
		frame:      f,
		dispatcher: bridge.NewDispatcher(frameToken, callbacks, logger),
		cfg:        cfg,
		logger:     logger,
		creds: resilience.New("credentials:"+sessionID, resilience.Settings{
			Timeout: 10 * time.Second,
		}),
		createdAt: time.Now(),
		state:     StateEmpty,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Frame returns the session's frame model.
func (s *Session) Frame() *frame.Frame { return s.frame }

// Dispatcher returns the session's bridge dispatcher.
func (s *Session) Dispatcher() *bridge.Dispatcher { return s.dispatcher }

// AllowedOrigins returns a copy of the session's network allowlist.
func (s *Session) AllowedOrigins() []string {
	out := make([]string, len(s.cfg.AllowedOrigins))
	copy(out, s.cfg.AllowedOrigins)
	return out
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Prepare runs the preparation pipeline against this session's allowlist
// without touching the frame. The session moves to Prepared; a later Load
// performs the assignment.
func (s *Session) Prepare(rawHTML string) (PrepareResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return PrepareResult{}, ErrSessionDestroyed
	}

	res, err := Prepare(rawHTML, PrepareOptions{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowEval:      s.cfg.AllowEval,
	})
	if err != nil {
		return PrepareResult{}, err
	}
	s.state = StatePrepared
	return res, nil
}

// Load prepares raw HTML and assigns it to the frame. Credential
// resolution happens first and completes before assignment; a resolver
// failure is logged and the load proceeds without credentials. Blank HTML
// fails with SandboxError before the frame is touched.
func (s *Session) Load(ctx context.Context, rawHTML string) error {
	return s.LoadWith(ctx, rawHTML, nil)
}

// LoadWith is Load with extra per-request credentials layered over the
// resolver's output. The extras apply to this load only.
func (s *Session) LoadWith(ctx context.Context, rawHTML string, extra map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrSessionDestroyed
	}

	creds := s.resolveCredentials(ctx)
	if len(extra) > 0 {
		merged := make(map[string]string, len(creds)+len(extra))
		for k, v := range creds {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		creds = merged
	}

	s.frame.ConfigureIsolation()

	res, err := Prepare(rawHTML, PrepareOptions{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowEval:      s.cfg.AllowEval,
	})
	if err != nil {
		return err
	}

	// Each fragment is prepended to <head>, so the last injection ends up
	// first: credentials precede the bridge script and the policy meta tag,
	// and the global is assigned before any app code can run. Prepare always
	// starts from the raw document, so injection never stacks across loads.
	doc := document.InjectHead(res.HTML, bridge.ScriptTag(bridge.ScriptOptions{
		FrameToken: s.frame.Token(),
		HostOrigin: s.cfg.HostOrigin,
	}))
	if len(creds) > 0 {
		doc = document.InjectCredentials(doc, creds)
	}

	s.frame.SetDocument(doc)
	s.currentHTML = doc
	s.rawHTML = rawHTML
	s.state = StateLoaded

	s.logger.Info("document loaded",
		zap.String("session_id", s.id),
		zap.String("doc_hash", utils.ShortHash(doc)),
		zap.Int("allowed_origins", len(s.cfg.AllowedOrigins)),
		zap.Bool("credentials", len(creds) > 0),
	)
	return nil
}

// resolveCredentials invokes the host resolver behind a circuit breaker.
// Any failure yields no credentials, never a failed load.
func (s *Session) resolveCredentials(ctx context.Context) map[string]string {
	if s.cfg.Credentials == nil {
		return nil
	}

	result, err := s.creds.Execute(func() (interface{}, error) {
		return s.cfg.Credentials(ctx)
	})
	if err != nil {
		s.logger.Warn("credential resolution failed, loading without credentials",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return nil
	}
	headers, _ := result.(map[string]string)
	return headers
}

// Clear resets the frame to an empty document. The session remains usable.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrSessionDestroyed
	}

	s.frame.Clear()
	s.currentHTML = ""
	s.rawHTML = ""
	s.state = StateCleared
	return nil
}

// Destroy detaches the bridge dispatcher and unbinds the frame. Terminal:
// every later lifecycle call is rejected. Detach happens before the frame
// is cleared so no bridge event can fire against a dead frame.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return
	}

	s.dispatcher.Detach()
	s.frame.Clear()
	s.currentHTML = ""
	s.rawHTML = ""
	s.state = StateDestroyed

	s.logger.Info("session destroyed", zap.String("session_id", s.id))
}

// CurrentHTML returns the last successfully loaded (post-processing)
// document, empty after Clear or Destroy.
func (s *Session) CurrentHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHTML
}

// RawHTML returns the document as the host supplied it, before
// preparation. Empty unless the session is loaded.
func (s *Session) RawHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawHTML
}

// ExtractCurrentDocument reads the frame's live document and re-serializes
// it with a reconstructed doctype. Best effort: returns ok=false instead
// of an error when there is nothing accessible to extract.
func (s *Session) ExtractCurrentDocument() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return "", false
	}

	doc := s.frame.Document()
	if doc == "" {
		return "", false
	}

	extracted, err := document.Extract(doc)
	if err != nil {
		s.logger.Debug("document extraction failed", zap.String("session_id", s.id), zap.Error(err))
		return "", false
	}
	return extracted, true
}

// IsEmpty reports whether the frame has no displayable content.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed {
		return true
	}
	return s.frame.IsEmpty()
}

// ToggleFullscreen flips the session's fullscreen flag and returns the new
// state. Per-session, never process-global: concurrent sessions each track
// their own flag. No-op (false) on a destroyed session.
func (s *Session) ToggleFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return false
	}
	s.fullscreen = !s.fullscreen
	return s.fullscreen
}

// IsFullscreen returns the session's fullscreen flag.
func (s *Session) IsFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}
