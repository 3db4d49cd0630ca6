package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOriginAllowedEmptyList(t *testing.T) {
	for _, u := range []string{
		"https://anything/",
		"https://api.example.com/x",
		"not a url",
		"",
	} {
		assert.False(t, IsOriginAllowed(u, nil), "url %q", u)
		assert.False(t, IsOriginAllowed(u, []string{}), "url %q", u)
	}
}

func TestIsOriginAllowedExact(t *testing.T) {
	allowed := []string{"https://api.example.com", "http://localhost:8080"}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"exact match", "https://api.example.com/v1/users", true},
		{"case-insensitive host", "https://API.EXAMPLE.COM/v1", true},
		{"port match", "http://localhost:8080/api", true},
		{"port mismatch", "http://localhost:9090/api", false},
		{"scheme mismatch", "http://api.example.com/v1", false},
		{"different host", "https://api.other.com/", false},
		{"subdomain of exact pattern", "https://sub.api.example.com/", false},
		{"unparseable", "ht!tp://broken url", false},
		{"scheme only", "https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOriginAllowed(tt.url, allowed))
		})
	}
}

func TestIsOriginAllowedWildcard(t *testing.T) {
	allowed := []string{"*.example.com"}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"direct subdomain", "https://api.example.com/x", true},
		{"nested subdomain", "https://a.b.example.com/x", true},
		{"http scheme", "http://api.example.com/", true},
		{"apex excluded", "https://example.com/x", false},
		{"suffix lookalike", "https://notexample.com/x", false},
		{"embedded lookalike", "https://example.com.evil.net/", false},
		{"non-web scheme", "ftp://api.example.com/", false},
		{"javascript scheme", "javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOriginAllowed(tt.url, allowed))
		})
	}

	// Apex reachable when listed separately alongside the wildcard.
	both := []string{"*.example.com", "https://example.com"}
	assert.True(t, IsOriginAllowed("https://example.com/x", both))
}

func TestIsOriginAllowedSkipsMalformedPatterns(t *testing.T) {
	assert.False(t, IsOriginAllowed("https://a.com/", []string{"", "*.", "%%%"}))
	assert.True(t, IsOriginAllowed("https://a.com/", []string{"", "https://a.com"}))
}
