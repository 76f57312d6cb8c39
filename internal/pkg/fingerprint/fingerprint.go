// Package fingerprint derives short, stable identifiers from secrets such as
// access tokens so they can be used as cache keys and audit actors without
// storing the secret itself.
package fingerprint

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Of hashes the parts with BLAKE2b-256 and returns the first 16 bytes as hex.
// Parts are separated by a NUL byte so ("ab","c") and ("a","bc") differ.
func Of(parts ...string) string {
	sum := blake2b.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:16])
}
