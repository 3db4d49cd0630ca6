// Package frame models the host-page iframe element a sandbox session is
// bound to: its isolation token list, its inline document and its
// navigable source. The server mutates this model and mirrors it to the
// host page; RenderEmbed produces the element markup the host inserts.
package frame

import (
	"html"
	"strings"
	"sync"
)

// RequiredTokens is the minimum sandbox token set a generated app needs to
// run scripts, submit forms and open popups.
//
// allow-same-origin is deliberately absent. Including it would give the
// document a real origin and with it read access to host-origin storage
// and cookies through relative URLs. Its exclusion means the frame's
// origin is opaque, which is also why the bridge authenticates on frame
// tokens instead of origin strings.
var RequiredTokens = []string{"allow-scripts", "allow-forms", "allow-popups"}

// Frame is the server-side model of one iframe element. Exactly one
// session owns a frame for its whole lifetime.
type Frame struct {
	token string

	mu            sync.RWMutex
	sandboxTokens []string
	inlineDoc     string
	src           string
}

// New creates a frame identified by a bridge token.
func New(token string) *Frame {
	return &Frame{token: token}
}

// Token returns the frame's bridge token.
func (f *Frame) Token() string {
	return f.token
}

// ConfigureIsolation sets the sandbox token list to the required set.
// Called on every load so a frame whose attributes were tampered with
// client-side is reset before content is assigned.
func (f *Frame) ConfigureIsolation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sandboxTokens = append([]string(nil), RequiredTokens...)
}

// SandboxAttr returns the space-separated sandbox attribute value.
func (f *Frame) SandboxAttr() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return strings.Join(f.sandboxTokens, " ")
}

// SetDocument assigns an inline document. Inline assignment (the srcdoc
// mechanism) keeps the content off the network and synchronously
// available, and clears any navigable source.
func (f *Frame) SetDocument(html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inlineDoc = html
	f.src = ""
}

// Document returns the current inline document, empty when none is set.
func (f *Frame) Document() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.inlineDoc
}

// SetSrc assigns a navigable source instead of an inline document.
func (f *Frame) SetSrc(src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.src = src
	f.inlineDoc = ""
}

// Clear resets the frame to an empty document.
func (f *Frame) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inlineDoc = ""
	f.src = ""
}

// IsEmpty reports whether neither an inline document nor a non-blank
// navigable source is set.
func (f *Frame) IsEmpty() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.inlineDoc != "" {
		return false
	}
	return f.src == "" || f.src == "about:blank"
}

// RenderEmbed produces the iframe element markup for the host page, with
// the inline document escaped into the srcdoc attribute.
func (f *Frame) RenderEmbed() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString(`<iframe sandbox="`)
	sb.WriteString(strings.Join(f.sandboxTokens, " "))
	sb.WriteString(`"`)
	if f.inlineDoc != "" {
		sb.WriteString(` srcdoc="`)
		sb.WriteString(html.EscapeString(f.inlineDoc))
		sb.WriteString(`"`)
	} else if f.src != "" {
		sb.WriteString(` src="`)
		sb.WriteString(html.EscapeString(f.src))
		sb.WriteString(`"`)
	}
	sb.WriteString(`></iframe>`)
	return sb.String()
}
