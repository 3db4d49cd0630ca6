package document

import "regexp"

// Removal markers left in place of stripped tags so a host-side audit of
// the transformation can see what was removed and where.
const (
	metaRefreshMarker = "<!-- framehost: removed meta refresh -->"
	baseTagMarker     = "<!-- framehost: removed base tag -->"
)

var (
	metaRefreshRe = regexp.MustCompile(`(?i)<meta[^>]*http-equiv\s*=\s*["']?refresh["']?[^>]*>`)
	baseTagRe     = regexp.MustCompile(`(?i)<base\b[^>]*>`)
)

// BasicSanitize strips the two tags that let a generated document act on
// the top-level context: <meta http-equiv="refresh"> (top-frame redirects)
// and <base> (relative-URL hijacking). Each removal is replaced with an
// HTML comment marker rather than deleted silently.
//
// This is deliberately not a general-purpose sanitizer. Scripts, inline
// handlers and network calls are expected in generated apps and are
// contained by the CSP and the frame's isolation tokens instead.
func BasicSanitize(html string) string {
	html = metaRefreshRe.ReplaceAllString(html, metaRefreshMarker)
	html = baseTagRe.ReplaceAllString(html, baseTagMarker)
	return html
}
