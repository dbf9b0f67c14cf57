package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content digests.
// The version suffix leaves room for an algorithm change.
const (
	DomainDocument = "nodeweave/document/v1"
	DomainIntent   = "nodeweave/intent/v1"
)

// Digest computes SHA-256 over domain, a 0x00 separator, then data.
// The separator keeps the domain/data boundary unambiguous.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
