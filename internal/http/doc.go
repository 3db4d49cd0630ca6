// Package http exposes the sandbox over a REST surface: one-shot document
// preparation, session lifecycle, and one-time export retrieval.
package http
