// Package id provides prefixed, lexicographically sortable identifiers.
//
// Sessions, exports and requests use ULIDs with a type prefix so IDs are
// k-sortable and readable in logs (sess_*, exp_*, req_*). Frame tokens use
// UUIDv4: they are bearer credentials for the bridge, so unpredictability
// matters more than sortability there.
package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Prefixes for each identifier type.
const (
	SessionPrefix = "sess"
	ExportPrefix  = "exp"
	RequestPrefix = "req"
	FramePrefix   = "frame"
)

var entropyMu sync.Mutex

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// NewSession returns a new session ID (sess_<ULID>).
func NewSession() string {
	return SessionPrefix + "_" + newULID()
}

// NewExport returns a new export token (exp_<ULID>).
func NewExport() string {
	return ExportPrefix + "_" + newULID()
}

// NewRequest returns a new request ID (req_<ULID>).
func NewRequest() string {
	return RequestPrefix + "_" + newULID()
}

// NewFrameToken returns an unguessable bridge token (frame_<UUIDv4>).
func NewFrameToken() string {
	return FramePrefix + "_" + uuid.NewString()
}

// HasPrefix reports whether an ID carries the given type prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
