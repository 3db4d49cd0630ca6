package document

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/byof/framehost/internal/sandbox/policy"
)

// CredentialGlobal is the window property the credential bootstrap script
// assigns. Generated apps read their auth headers from it.
const CredentialGlobal = "__BYOF_AUTH__"

var (
	headTagRe = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	htmlTagRe = regexp.MustCompile(`(?i)<html(\s[^>]*)?>`)
)

// InjectCSP inserts the policy meta tag at the structurally correct
// location: immediately after the first <head> tag, inside a synthesized
// <head> after <html> when the document has none, or wrapped in a minimal
// document shell when the input is a bare fragment. Total over any input.
func InjectCSP(html string, p policy.Policy) string {
	return injectHead(html, p.MetaTag())
}

// InjectCredentials embeds the header map as a bootstrap script assigning
// CredentialGlobal. An empty map is a no-op: the input string is returned
// unchanged. Header values are JSON-encoded with HTML escaping, so no
// value can close the enclosing <script> tag early ('<', '>', '&' and the
// U+2028/U+2029 separators all become \uXXXX sequences).
func InjectCredentials(html string, headers map[string]string) string {
	if len(headers) == 0 {
		return html
	}
	script := `<script>window.` + CredentialGlobal + `=` + encodeHeaders(headers) + `;</script>`
	return injectHead(html, script)
}

// HasCredentialInjection reports whether a credential bootstrap assignment
// is present in the document. It matches the assignment, not the global's
// name: an app that merely reads window.__BYOF_AUTH__ has not been injected.
func HasCredentialInjection(html string) bool {
	return strings.Contains(html, "window."+CredentialGlobal+"=")
}

// encodeHeaders serializes headers for embedding inside a script element.
func encodeHeaders(headers map[string]string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(headers); err != nil {
		// A map[string]string cannot fail to encode; keep the contract total.
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// InjectHead inserts an arbitrary head fragment using the same placement
// rules as CSP injection. The session layer uses it for the bridge script.
func InjectHead(html, fragment string) string {
	return injectHead(html, fragment)
}

// injectHead inserts fragment right after <head>, synthesizing wrapper
// structure when the document lacks it.
func injectHead(html, fragment string) string {
	if loc := headTagRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + fragment + html[loc[1]:]
	}
	if loc := htmlTagRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + "<head>" + fragment + "</head>" + html[loc[1]:]
	}
	return "<!DOCTYPE html><html><head>" + fragment + "</head><body>" + html + "</body></html>"
}
