package types

import "time"

// SessionInfo is the externally visible snapshot of a sandbox session.
type SessionInfo struct {
	ID          string    `json:"id"`
	State       string    `json:"state"`
	Empty       bool      `json:"empty"`
	Fullscreen  bool      `json:"fullscreen"`
	SandboxAttr string    `json:"sandbox_attr"`
	FrameToken  string    `json:"frame_token"`
	CreatedAt   time.Time `json:"created_at"`
}
