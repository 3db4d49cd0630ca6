package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirectiveOrder(t *testing.T) {
	p := Build([]string{"https://api.example.com"}, Options{})

	names := []string{}
	for _, d := range p.Directives() {
		names = append(names, d.Name)
	}

	assert.Equal(t, []string{
		"default-src", "script-src", "style-src", "img-src", "font-src",
		"connect-src", "form-action", "frame-src", "object-src",
	}, names)

	// Deterministic across calls
	assert.Equal(t, p.String(), Build([]string{"https://api.example.com"}, Options{}).String())
}

func TestBuildConnectSrcOrder(t *testing.T) {
	origins := []string{"https://b.example.com", "https://a.example.com", "*.cdn.example.com"}
	p := Build(origins, Options{})

	connect, ok := p.Get("connect-src")
	require.True(t, ok)
	assert.Equal(t, append([]string{"'self'"}, origins...), connect)

	formAction, ok := p.Get("form-action")
	require.True(t, ok)
	assert.Equal(t, connect, formAction)
}

func TestBuildNonNegotiableDirectives(t *testing.T) {
	for _, origins := range [][]string{nil, {}, {"https://api.example.com"}} {
		p := Build(origins, Options{AllowEval: true})

		frame, ok := p.Get("frame-src")
		require.True(t, ok)
		assert.Equal(t, []string{"'none'"}, frame)

		object, ok := p.Get("object-src")
		require.True(t, ok)
		assert.Equal(t, []string{"'none'"}, object)
	}
}

func TestBuildAllowEval(t *testing.T) {
	withoutEval, _ := Build(nil, Options{}).Get("script-src")
	assert.Equal(t, []string{"'self'", "'unsafe-inline'"}, withoutEval)

	withEval, _ := Build(nil, Options{AllowEval: true}).Get("script-src")
	assert.Equal(t, []string{"'self'", "'unsafe-inline'", "'unsafe-eval'"}, withEval)
}

func TestStringSerialization(t *testing.T) {
	p := Build([]string{"https://api.example.com"}, Options{})

	expected := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: blob:; " +
		"font-src 'self' data:; " +
		"connect-src 'self' https://api.example.com; " +
		"form-action 'self' https://api.example.com; " +
		"frame-src 'none'; " +
		"object-src 'none'"
	assert.Equal(t, expected, p.String())
}

func TestMetaTag(t *testing.T) {
	p := Build([]string{"https://api.example.com"}, Options{})
	tag := p.MetaTag()

	assert.True(t, strings.HasPrefix(tag, `<meta http-equiv="Content-Security-Policy" content="`))
	assert.True(t, strings.HasSuffix(tag, `">`))
	assert.Contains(t, tag, "https://api.example.com")
}

func TestMetaTagStripsDoubleQuotes(t *testing.T) {
	// A hostile origin pattern must not be able to close the content attribute.
	p := Build([]string{`https://evil.com"><script>alert(1)</script>`}, Options{})
	tag := p.MetaTag()

	content := strings.TrimSuffix(strings.TrimPrefix(tag, `<meta http-equiv="Content-Security-Policy" content="`), `">`)
	assert.NotContains(t, content, `"`)
}
