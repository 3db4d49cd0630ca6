// Package session implements the sandbox lifecycle: each session binds one
// frame to one host for its lifetime and moves through
// Empty, Prepared, Loaded/Cleared, with Destroyed terminal and
// reachable from anywhere.
//
// Failure semantics: blank HTML is the one hard error (SandboxError),
// raised synchronously from Prepare/Load. Everything else degrades
// gracefully. Extraction returns ok=false, fullscreen toggling on a dead
// session returns false, and credential-resolution failures log and load
// without credentials, since these paths run from host event handlers
// where an escaped error would break the page.
package session
