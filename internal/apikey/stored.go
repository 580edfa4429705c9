package apikey

import (
	"crypto/subtle"
	"strings"
)

// Stored is the parsed persisted representation of a key.
type Stored struct {
	Version string
	Hint    string
	Digest  string
}

// ParseStored splits a stored form <version>:<hint>:<digest>. Only
// StoredVersion is currently understood.
func ParseStored(s string) (Stored, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Stored{}, ErrInvalidKey{reason: "stored form must be <version>:<hint>:<digest>"}
	}
	if parts[0] != StoredVersion {
		return Stored{}, ErrInvalidKey{reason: "unsupported stored form version " + parts[0]}
	}
	if parts[1] == "" || !isHex(parts[2]) {
		return Stored{}, ErrInvalidKey{reason: "malformed stored form"}
	}
	return Stored{Version: parts[0], Hint: parts[1], Digest: parts[2]}, nil
}

// Verify reports whether plaintext hashes to the stored digest. The
// comparison is constant time.
func (s Stored) Verify(plaintext string) bool {
	digest := Digest(plaintext)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(s.Digest)) == 1
}

// VerifyStored is a convenience for callers holding the raw stored string.
func VerifyStored(stored, plaintext string) (bool, error) {
	s, err := ParseStored(stored)
	if err != nil {
		return false, err
	}
	return s.Verify(plaintext), nil
}
