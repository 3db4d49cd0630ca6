package policy

import (
	"net/url"
	"strings"
)

// IsOriginAllowed reports whether rawURL's origin is covered by the
// allowlist. Patterns are either full origins ("https://api.example.com")
// compared on scheme+host+port, or wildcard-subdomain patterns
// ("*.example.com") which match any subdomain at any depth over http or
// https but never the bare apex; list the apex separately when it should
// be reachable.
//
// Unparseable URLs and empty allowlists are never allowed. This function
// never returns an error: it answers a yes/no question on untrusted input.
func IsOriginAllowed(rawURL string, allowedOrigins []string) bool {
	if len(allowedOrigins) == 0 {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	for _, pattern := range allowedOrigins {
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "*.") {
			if matchesWildcard(u, pattern) {
				return true
			}
			continue
		}
		if matchesExact(u, pattern) {
			return true
		}
	}
	return false
}

// matchesWildcard checks "*.example.com" style patterns. Only web schemes
// participate; a javascript: or data: URL can never satisfy a wildcard.
func matchesWildcard(u *url.URL, pattern string) bool {
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	suffix := strings.ToLower(strings.TrimPrefix(pattern, "*."))
	if suffix == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return strings.HasSuffix(host, "."+suffix)
}

// matchesExact compares the candidate's origin against a full-origin
// pattern, including an explicit port when the pattern carries one.
func matchesExact(u *url.URL, pattern string) bool {
	p, err := url.Parse(pattern)
	if err != nil || p.Scheme == "" || p.Host == "" {
		return false
	}
	return strings.EqualFold(u.Scheme, p.Scheme) && strings.EqualFold(u.Host, p.Host)
}
