// Package main is the entry point for the framehost server.
//
// The server prepares untrusted generated HTML documents for sandboxed
// embedding and tracks the sessions hosting them:
//
//	Host page → framehost → prepared documents, session state,
//	                        bridge event stream
//
// The server provides:
//   - REST API for document preparation, validation and session lifecycle
//   - One-time export URLs for new-tab and download flows
//   - WebSocket relay for frame bridge messages
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000 -profiles sandbox-profiles.yaml
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown; all sessions are destroyed and
//     staged exports revoked.
package main
