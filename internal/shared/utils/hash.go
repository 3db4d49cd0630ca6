// Package utils holds small shared helpers.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// DocumentHash returns the hex SHA-256 of a document. Audit logs record it
// so a host can correlate what was validated, prepared and served without
// logging document bodies.
func DocumentHash(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 12 hex characters of DocumentHash, enough to
// correlate log lines without the full digest.
func ShortHash(html string) string {
	return DocumentHash(html)[:12]
}
