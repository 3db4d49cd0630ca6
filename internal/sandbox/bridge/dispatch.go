package bridge

import (
	"sync/atomic"

	"github.com/byof/framehost/internal/logging"
	"go.uber.org/zap"
)

// Callbacks are the host's typed handlers for bridge events. Nil entries
// are skipped.
type Callbacks struct {
	OnError    func(ErrorMessage)
	OnResize   func(ResizeMessage)
	OnNavigate func(NavigateMessage)
}

// Dispatcher authenticates and routes bridge envelopes for one sandbox
// session. One dispatcher per session; detach it when the session is
// destroyed or events will keep firing against a dead frame.
type Dispatcher struct {
	frameToken string
	callbacks  Callbacks
	logger     *logging.Logger
	detached   atomic.Bool
}

// NewDispatcher creates a dispatcher bound to a frame token.
func NewDispatcher(frameToken string, callbacks Callbacks, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Dispatcher{
		frameToken: frameToken,
		callbacks:  callbacks,
		logger:     logger,
	}
}

// Dispatch routes one envelope. Envelopes whose frame token does not match
// the session's are discarded unconditionally: the token check is the sole
// authentication available, since an opaque-origin frame has no comparable
// origin string. Unknown kinds are logged and ignored, never an error.
func (d *Dispatcher) Dispatch(env Envelope) {
	if d.detached.Load() {
		return
	}
	if env.FrameToken != d.frameToken {
		// Silent discard: the transport carries traffic for the whole
		// page, not just this frame.
		return
	}

	msg, err := Decode(env)
	if err != nil {
		d.logger.Warn("ignoring bridge message", zap.String("kind", string(env.Type)), zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case ErrorMessage:
		if d.callbacks.OnError != nil {
			d.callbacks.OnError(m)
		}
	case ResizeMessage:
		if d.callbacks.OnResize != nil {
			d.callbacks.OnResize(m)
		}
	case NavigateMessage:
		if d.callbacks.OnNavigate != nil {
			d.callbacks.OnNavigate(m)
		}
	}
}

// Detach permanently stops dispatching. Safe to call more than once.
func (d *Dispatcher) Detach() {
	d.detached.Store(true)
}

// Detached reports whether the dispatcher has been detached.
func (d *Dispatcher) Detached() bool {
	return d.detached.Load()
}
