package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"
)

const nonceBytes = 16

// Hash returns the hex-encoded sha256 digest of input. Deterministic,
// fixed length; used for token fingerprints, never for passwords.
func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// RandomHex returns n random bytes from crypto/rand, hex encoded
// (the returned string is 2n characters long).
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Nonce returns a fresh anti-replay nonce.
func Nonce() (string, error) {
	return RandomHex(nonceBytes)
}

// TimestampValid reports whether ts (ms epoch) lies within maxAge of now
// and is not in the future. Used to reject replayed request envelopes.
func TimestampValid(ts int64, maxAge time.Duration, now time.Time) bool {
	nowMS := now.UnixMilli()
	return ts > nowMS-maxAge.Milliseconds() && ts <= nowMS
}

// ConstantTimeEquals compares a and b without early exit on the first
// mismatching byte. Differing lengths are rejected immediately; the
// length itself is not treated as secret.
func ConstantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ObfuscateSensitive masks all but the first and last two characters of s
// so identifiers can appear in diagnostics without leaking.
func ObfuscateSensitive(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
