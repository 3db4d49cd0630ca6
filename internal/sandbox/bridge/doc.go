// Package bridge implements the protocol between a sandboxed generated
// document and its host: a deterministic in-document script that reports
// runtime errors, size changes and navigation attempts via postMessage,
// and a host-side dispatcher that authenticates each message on its
// transport source before invoking the registered callbacks.
//
// The sandboxed frame runs without allow-same-origin, so its origin is
// opaque and origin-string checks are useless. The sole authentication
// mechanism is the per-session frame token carried by every envelope;
// anything with a different token is silently discarded.
//
// Message kinds are a closed set. The dispatcher switches exhaustively
// over them so adding a kind is a compile-time decision, and an
// unrecognized kind coming off the wire is logged and ignored.
package bridge
