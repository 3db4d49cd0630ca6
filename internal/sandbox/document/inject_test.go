package document

import (
	"strings"
	"testing"

	"github.com/byof/framehost/internal/sandbox/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() policy.Policy {
	return policy.Build([]string{"https://api.example.com"}, policy.Options{})
}

func TestInjectCSPPlacement(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name string
		html string
		text string
	}{
		{"full document", "<html><head><title>T</title></head><body>Hello</body></html>", "Hello"},
		{"head with attributes", `<html lang="en"><head class="x"><title>T</title></head><body>Hi</body></html>`, "Hi"},
		{"html without head", "<html><body>Content here</body></html>", "Content here"},
		{"bare fragment", "<div>Fragment text</div>", "Fragment text"},
		{"plain text", "just some text", "just some text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := InjectCSP(tt.html, p)

			assert.Equal(t, 1, strings.Count(out, `http-equiv="Content-Security-Policy"`))
			assert.Contains(t, out, tt.text)
			assert.Contains(t, out, "<head")
		})
	}
}

func TestInjectCSPAfterHeadTag(t *testing.T) {
	out := InjectCSP("<html><head><title>T</title></head><body></body></html>", testPolicy())
	// Meta tag lands before anything that was already in head.
	assert.Less(t, strings.Index(out, "Content-Security-Policy"), strings.Index(out, "<title>"))
}

func TestInjectCSPUppercaseTags(t *testing.T) {
	out := InjectCSP("<HTML><HEAD></HEAD><BODY>X</BODY></HTML>", testPolicy())
	assert.Equal(t, 1, strings.Count(out, "Content-Security-Policy"))
	assert.Contains(t, out, "X")
}

func TestInjectCredentialsEmptyIsNoOp(t *testing.T) {
	in := "<html><head></head><body></body></html>"
	assert.Equal(t, in, InjectCredentials(in, nil))
	assert.Equal(t, in, InjectCredentials(in, map[string]string{}))
}

func TestInjectCredentials(t *testing.T) {
	out := InjectCredentials("<html><head></head><body></body></html>", map[string]string{
		"Authorization": "Bearer tok123",
	})

	assert.Contains(t, out, "window."+CredentialGlobal+"=")
	assert.Contains(t, out, "Authorization")
	assert.Contains(t, out, "Bearer tok123")
	assert.True(t, HasCredentialInjection(out))
}

func TestInjectCredentialsEscapesScriptBreakout(t *testing.T) {
	hostile := map[string]string{
		"X-Evil": `</script><script>alert(1)</script>`,
	}
	out := InjectCredentials("<html><head></head><body></body></html>", hostile)

	assert.NotContains(t, out, `</script><script>alert(1)`)
	// Exactly the bootstrap script's open/close pair.
	assert.Equal(t, 1, strings.Count(out, "<script>"))
	assert.Equal(t, 1, strings.Count(out, "</script>"))
}

func TestInjectCredentialsEscapesLineSeparators(t *testing.T) {
	out := InjectCredentials("<html><head></head><body></body></html>", map[string]string{
		"X-Sep": "a b c",
	})

	assert.NotContains(t, out, " ")
	assert.NotContains(t, out, " ")
	assert.Contains(t, out, ` `)
	assert.Contains(t, out, ` `)
}

func TestInjectCredentialsIntoFragment(t *testing.T) {
	out := InjectCredentials("<div>x</div>", map[string]string{"X-K": "v"})

	require.True(t, HasCredentialInjection(out))
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<div>x</div>")
}

func TestHasCredentialInjection(t *testing.T) {
	assert.False(t, HasCredentialInjection("<html></html>"))
	assert.True(t, HasCredentialInjection("<script>window."+CredentialGlobal+"={};</script>"))
	// Reading the global is consumption, not injection.
	assert.False(t, HasCredentialInjection(
		"<script>fetch('/api',{headers:window."+CredentialGlobal+"});</script>"))
}
