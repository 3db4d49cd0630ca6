package session

import "errors"

// SandboxError is the one hard failure this subsystem raises: blank HTML
// handed to Prepare or Load. It is reported synchronously, never retried
// (retrying the same empty input cannot succeed) and is meant to surface
// through the host's error callback.
type SandboxError struct {
	Reason string
}

func (e *SandboxError) Error() string {
	return "sandbox: " + e.Reason
}

// ErrSessionDestroyed is returned by lifecycle calls on a destroyed
// session. Destroyed is terminal.
var ErrSessionDestroyed = errors.New("session destroyed")
