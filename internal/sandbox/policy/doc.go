// Package policy builds Content-Security-Policy documents for sandboxed
// generated apps and answers origin-allowlist membership questions.
//
// All functions are pure and synchronous: the same allowlist always
// produces the same serialized policy, byte for byte, because the output
// is embedded directly in a <meta> tag and asserted against in tests.
//
// Allowlist patterns:
//   - exact origins: "https://api.example.com" (scheme+host+port equality)
//   - wildcard subdomains: "*.example.com" (any depth, never the apex)
//
// Example Usage:
//
//	p := policy.Build([]string{"https://api.example.com"}, policy.Options{})
//	tag := p.MetaTag()
package policy
