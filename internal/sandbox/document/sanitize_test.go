package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicSanitizeMetaRefresh(t *testing.T) {
	in := `<html><head><meta http-equiv="refresh" content="0;url=https://evil.com"></head><body>x</body></html>`
	out := BasicSanitize(in)

	assert.NotContains(t, strings.ToLower(out), "refresh")
	assert.Contains(t, out, metaRefreshMarker)
	assert.Contains(t, out, "x")
}

func TestBasicSanitizeMetaRefreshVariants(t *testing.T) {
	variants := []string{
		`<meta http-equiv="refresh" content="5">`,
		`<META HTTP-EQUIV="REFRESH" CONTENT="0">`,
		`<meta content="0" http-equiv='refresh'>`,
		`<meta http-equiv=refresh content=0>`,
	}
	for _, v := range variants {
		out := BasicSanitize(v)
		assert.Contains(t, out, metaRefreshMarker, "variant %q", v)
	}
}

func TestBasicSanitizeBaseTag(t *testing.T) {
	out := BasicSanitize(`<html><head><base href="https://evil.com/"></head><body>y</body></html>`)

	assert.NotContains(t, strings.ToLower(out), "<base")
	assert.Contains(t, out, baseTagMarker)
	assert.Contains(t, out, "y")
}

func TestBasicSanitizeLeavesOtherMetaTags(t *testing.T) {
	in := `<meta charset="utf-8"><meta name="viewport" content="width=device-width">`
	assert.Equal(t, in, BasicSanitize(in))
}

func TestBasicSanitizeLeavesScripts(t *testing.T) {
	// Scripts are contained by CSP and isolation tokens, not stripped.
	in := `<script>app()</script>`
	assert.Equal(t, in, BasicSanitize(in))
}
