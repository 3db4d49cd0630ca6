package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Extract parses a live document and re-serializes it with a reconstructed
// doctype, matching what a host sees when it pulls the current document
// out of a frame. Returns an error only when the input cannot be parsed
// at all, which the session layer converts to a nil result.
func Extract(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", fmt.Errorf("nothing to extract")
	}

	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	rendered := sb.String()
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(rendered)), "<!doctype") {
		rendered = "<!DOCTYPE html>" + rendered
	}
	return rendered, nil
}
