// Package exports holds prepared documents awaiting one-shot retrieval:
// the open-in-new-tab and download flows hand a document to the store and
// give the host a short-lived token URL instead of inlining the payload.
//
// Entries are the blob-URL analog: retrievable for a bounded window after
// creation, then revoked automatically so repeated exports cannot grow
// memory without bound. Revocation is fire-and-forget cleanup with no
// observable failure mode.
package exports

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"

	"github.com/byof/framehost/internal/logging"
	"github.com/byof/framehost/internal/shared/id"
	"go.uber.org/zap"
)

// Mode distinguishes how the host intends to consume an export.
type Mode string

const (
	// ModeTab serves the document inline for a new browsing context.
	ModeTab Mode = "tab"
	// ModeDownload serves the document as a file attachment.
	ModeDownload Mode = "download"
)

// DefaultTTL bounds how long an export stays retrievable. Long enough for
// the new context to fetch it, short enough to cap memory.
const DefaultTTL = 30 * time.Second

// Document is a retrieved export.
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
	Mode        Mode
}

type entry struct {
	compressed  []byte
	contentType string
	filename    string
	mode        Mode
	timer       *time.Timer
}

// Store is a concurrency-safe export registry with TTL revocation.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	logger  *logging.Logger
	observe func(live int)
	closed  bool
}

// New creates a store. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, logger *logging.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  logger,
	}
}

// Observe registers a callback invoked with the live entry count after
// every mutation, including TTL expiry. Keeps an external gauge accurate
// without polling. Set once during wiring, before any Put.
func (s *Store) Observe(fn func(live int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe = fn
}

// notify reports the current entry count to the observer. Called outside
// the store lock so the callback cannot deadlock against it.
func (s *Store) notify(live int) {
	if s.observe != nil {
		s.observe(live)
	}
}

// Put stores a prepared document and schedules its revocation. Returns the
// export token the host exchanges for the document.
func (s *Store) Put(content []byte, mode Mode, filename string) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	token := id.NewExport()
	e := &entry{
		compressed:  buf.Bytes(),
		contentType: mimetype.Detect(content).String(),
		filename:    filename,
		mode:        mode,
	}
	e.timer = time.AfterFunc(s.ttl, func() {
		if s.Revoke(token) {
			s.logger.Debug("export expired", zap.String("token", token))
		}
	})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		e.timer.Stop()
		return "", ErrStoreClosed
	}
	s.entries[token] = e
	live := len(s.entries)
	s.mu.Unlock()

	s.notify(live)
	return token, nil
}

// Get retrieves and decompresses an export. Returns false for unknown,
// expired or revoked tokens.
func (s *Store) Get(token string) (*Document, bool) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	zr, err := gzip.NewReader(bytes.NewReader(e.compressed))
	if err != nil {
		return nil, false
	}
	defer zr.Close()
	content, err := io.ReadAll(zr)
	if err != nil {
		return nil, false
	}

	return &Document{
		Content:     content,
		ContentType: e.contentType,
		Filename:    e.filename,
		Mode:        e.mode,
	}, true
}

// Revoke removes an export immediately. Reports whether it existed.
func (s *Store) Revoke(token string) bool {
	s.mu.Lock()
	e, ok := s.entries[token]
	if !ok {
		s.mu.Unlock()
		return false
	}
	e.timer.Stop()
	delete(s.entries, token)
	live := len(s.entries)
	s.mu.Unlock()

	s.notify(live)
	return true
}

// Len returns the number of live exports.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close revokes everything and rejects further Puts.
func (s *Store) Close() {
	s.mu.Lock()
	for token, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, token)
	}
	s.closed = true
	s.mu.Unlock()

	s.notify(0)
}
