package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashPayload returns the hex BLAKE3 digest of an export payload.
func HashPayload(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// CacheKey combines a payload hash with the render settings that affect
// output, so a changed setting never serves a stale fragment.
func CacheKey(payloadHash string, settings ...string) string {
	h := blake3.New()
	h.Write([]byte(payloadHash))
	h.Write([]byte{0})
	for _, s := range settings {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
