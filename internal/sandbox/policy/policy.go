package policy

import (
	"strings"
)

// Options tunes policy construction for a prepared document.
type Options struct {
	AllowEval bool // adds 'unsafe-eval' to script-src (default off)
}

// Directive is a single CSP directive with its ordered value list.
type Directive struct {
	Name   string
	Values []string
}

// Policy is an ordered directive set. Order is deterministic because the
// serialized form is embedded verbatim in a <meta> tag and compared in tests.
type Policy struct {
	directives []Directive
}

// Build constructs the policy applied to every prepared document.
//
// object-src and frame-src are always 'none': the generated app may not
// embed plugins or nested frames regardless of configuration. connect-src
// and form-action carry 'self' followed by the allowed origins in input
// order. Inline script/style is permitted because the payload is a single
// self-contained document.
func Build(allowedOrigins []string, opts Options) Policy {
	scriptSrc := []string{"'self'", "'unsafe-inline'"}
	if opts.AllowEval {
		scriptSrc = append(scriptSrc, "'unsafe-eval'")
	}

	network := make([]string, 0, len(allowedOrigins)+1)
	network = append(network, "'self'")
	network = append(network, allowedOrigins...)

	return Policy{directives: []Directive{
		{Name: "default-src", Values: []string{"'self'"}},
		{Name: "script-src", Values: scriptSrc},
		{Name: "style-src", Values: []string{"'self'", "'unsafe-inline'"}},
		{Name: "img-src", Values: []string{"'self'", "data:", "blob:"}},
		{Name: "font-src", Values: []string{"'self'", "data:"}},
		{Name: "connect-src", Values: network},
		{Name: "form-action", Values: network},
		{Name: "frame-src", Values: []string{"'none'"}},
		{Name: "object-src", Values: []string{"'none'"}},
	}}
}

// Directives returns the ordered directive list.
func (p Policy) Directives() []Directive {
	return p.directives
}

// Get returns the value list for a directive name.
func (p Policy) Get(name string) ([]string, bool) {
	for _, d := range p.directives {
		if d.Name == name {
			return d.Values, true
		}
	}
	return nil, false
}

// String serializes the policy as "name v1 v2; name2 v1 ...".
func (p Policy) String() string {
	parts := make([]string, 0, len(p.directives))
	for _, d := range p.directives {
		parts = append(parts, d.Name+" "+strings.Join(d.Values, " "))
	}
	return strings.Join(parts, "; ")
}

// MetaTag renders the policy as a Content-Security-Policy meta element.
// Double quotes would terminate the content attribute early, so any quote
// smuggled in through an origin pattern is stripped from the output.
func (p Policy) MetaTag() string {
	content := strings.ReplaceAll(p.String(), `"`, "")
	return `<meta http-equiv="Content-Security-Policy" content="` + content + `">`
}
