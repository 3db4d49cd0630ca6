package session

import (
	"strings"

	"github.com/byof/framehost/internal/sandbox/document"
	"github.com/byof/framehost/internal/sandbox/policy"
)

// PrepareOptions parameterizes document preparation.
type PrepareOptions struct {
	AllowedOrigins []string
	AllowEval      bool
}

// PrepareResult is a prepared document. CSPInjected is a test hook, not a
// conditional behavior: injection is unconditional for non-empty input.
type PrepareResult struct {
	HTML        string
	CSPInjected bool
}

// Prepare validates and transforms raw generated HTML into a document safe
// to hand to a frame: blank input fails with SandboxError, top-context
// escape hatches are stripped, and the CSP for the allowlist is injected.
func Prepare(html string, opts PrepareOptions) (PrepareResult, error) {
	if strings.TrimSpace(html) == "" {
		return PrepareResult{}, &SandboxError{Reason: "cannot load empty document"}
	}

	sanitized := document.BasicSanitize(html)
	p := policy.Build(opts.AllowedOrigins, policy.Options{AllowEval: opts.AllowEval})

	return PrepareResult{
		HTML:        document.InjectCSP(sanitized, p),
		CSPInjected: true,
	}, nil
}
