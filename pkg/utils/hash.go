package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Fingerprint returns a short stable digest of s, for logging identifiers
// such as emails without writing them out.
func Fingerprint(s string) string {
	sum := SumSHA256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:6])
}
