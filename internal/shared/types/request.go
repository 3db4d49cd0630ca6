// Package types defines the request and response payloads shared by the
// HTTP and WebSocket surfaces.
package types

import "encoding/json"

// PrepareRequest is a one-shot preparation request.
type PrepareRequest struct {
	HTML           string   `json:"html" binding:"required"`
	AllowedOrigins []string `json:"allowed_origins"`
	AllowEval      bool     `json:"allow_eval"`
}

// ValidateRequest asks for an advisory validation report.
type ValidateRequest struct {
	HTML string `json:"html"`
}

// CreateSessionRequest registers a new sandbox session. Profile, when set,
// names a preset from the sandbox profiles file; explicit fields override
// the preset.
type CreateSessionRequest struct {
	AllowedOrigins []string `json:"allowed_origins"`
	AllowEval      bool     `json:"allow_eval"`
	HostOrigin     string   `json:"host_origin"`
	Profile        string   `json:"profile"`
}

// LoadRequest loads a document into a session's frame.
type LoadRequest struct {
	HTML string `json:"html"`
	// Credentials are auth headers injected into this load only. They are
	// never persisted server-side.
	Credentials map[string]string `json:"credentials,omitempty"`
}

// ExportRequest stages a document for a new tab or a download.
type ExportRequest struct {
	HTML           string   `json:"html" binding:"required"`
	AllowedOrigins []string `json:"allowed_origins"`
	Mode           string   `json:"mode"` // "tab" (default) or "download"
	Filename       string   `json:"filename"`
}

// GenerateRequest asks the generation endpoint for an app. When SessionID
// is set the result is loaded straight into that session's frame.
type GenerateRequest struct {
	Prompt         string            `json:"prompt" binding:"required"`
	Context        map[string]string `json:"context,omitempty"`
	SessionID      string            `json:"session_id,omitempty"`
	AllowedOrigins []string          `json:"allowed_origins,omitempty"`
}

// SaveAppRequest persists a session's current document with optional
// conversation state.
type SaveAppRequest struct {
	Messages []json.RawMessage `json:"messages,omitempty"`
	APISpec  json.RawMessage   `json:"api_spec,omitempty"`
}

// RestoreRequest loads a previously saved app into a session.
type RestoreRequest struct {
	AppID string `json:"app_id" binding:"required"`
}
