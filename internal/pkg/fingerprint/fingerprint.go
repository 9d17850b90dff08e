// Package fingerprint derives privacy-safe client identifiers.
// Raw IP addresses are never persisted; only the salted digest is.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces one-way IP fingerprints with a process-wide salt.
type Hasher struct {
	salt []byte
}

// NewHasher creates a fingerprint hasher with the given salt
func NewHasher(salt string) *Hasher {
	return &Hasher{salt: []byte(salt)}
}

// FromIP returns the hex-encoded salted SHA-256 of the source IP.
// The digest is truncated to 32 hex chars; enough to key rate windows
// without inviting anyone to treat it as reversible.
func (h *Hasher) FromIP(sourceIP string) string {
	sum := sha256.Sum256(append(h.salt, []byte(sourceIP)...))
	return hex.EncodeToString(sum[:16])
}
