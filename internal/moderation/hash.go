package moderation

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the hex-encoded SHA-256 of the raw content bytes.
// Used for deduplication bookkeeping only, not as a security primitive.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
