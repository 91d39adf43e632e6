package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashOwnerKey returns a filesystem-safe identifier for an owner key
// (typically a candidate email). Case and surrounding whitespace are
// normalized so the same mailbox always maps to the same namespace.
func HashOwnerKey(s string) string {
	normalized := strings.ToLower(strings.TrimSpace(s))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
