// Package server assembles the HTTP router, WebSocket bridge and sandbox
// services into a runnable process.
package server
