package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Prefix is the leading token of every issued key.
const Prefix = "sk"

// randomLen is the number of random bytes in a key. Encoded as hex this
// yields the 32-character random component.
const randomLen = 16

// StoredVersion tags the on-disk representation so the hashing or hint
// strategy can change without breaking verification of keys already issued
// under this version.
const StoredVersion = "v1"

var (
	ErrUnknownTier = errors.New("unknown tier")
	ErrNotAKey     = errors.New("not an api key")
)

// Tier is the plan identifier embedded into a key for quick visual
// identification.
type Tier string

const (
	TierHobby Tier = "hobby"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

// Valid returns nil if the tier is one of the known plan names.
func (t Tier) Valid() error {
	switch t {
	case TierHobby, TierPro, TierElite:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownTier, string(t))
}

func (t Tier) String() string { return string(t) }

type ErrInvalidKey struct {
	reason string
}

func (e ErrInvalidKey) Error() string {
	return fmt.Sprintf("invalid api key: %s", e.reason)
}

// Secret is a freshly minted bearer credential. The Plaintext field is the
// only place the full key ever exists; it must never be persisted.
type Secret struct {
	Tier      Tier
	Plaintext string
	Hint      string
	Digest    string
}

// Mint generates a new secret for the given tier. The plaintext has the
// form sk_<tier>_<32 hex chars>.
func Mint(tier Tier) (*Secret, error) {
	if err := tier.Valid(); err != nil {
		return nil, err
	}
	buf := make([]byte, randomLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating key material: %w", err)
	}
	plaintext := Prefix + "_" + tier.String() + "_" + hex.EncodeToString(buf)
	return &Secret{
		Tier:      tier,
		Plaintext: plaintext,
		Hint:      Hint(plaintext),
		Digest:    Digest(plaintext),
	}, nil
}

// StoredForm is the only representation of the secret that may be
// persisted: <version>:<hint>:<digest>.
func (s *Secret) StoredForm() string {
	return StoredVersion + ":" + s.Hint + ":" + s.Digest
}

// Hint derives the display form of a key: the first 7 and last 4
// characters. It is safe to store and show.
func Hint(plaintext string) string {
	if len(plaintext) < 11 {
		return plaintext
	}
	return plaintext[:7] + "..." + plaintext[len(plaintext)-4:]
}

// Digest computes the hex-encoded SHA-256 digest of a plaintext key.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Parse validates the plaintext layout sk_<tier>_<32 hex chars> and
// returns the embedded tier.
func Parse(plaintext string) (Tier, error) {
	parts := strings.Split(plaintext, "_")
	if len(parts) != 3 || parts[0] != Prefix {
		return "", ErrInvalidKey{reason: "must match sk_<tier>_<random>"}
	}
	tier := Tier(parts[1])
	if err := tier.Valid(); err != nil {
		return "", ErrInvalidKey{reason: fmt.Sprintf("tier %q is not a known plan", parts[1])}
	}
	if len(parts[2]) != randomLen*2 || !isHex(parts[2]) {
		return "", ErrInvalidKey{reason: "random component must be 32 hex characters"}
	}
	return tier, nil
}

// DetectTier reads the tier segment out of a key without validating the
// random component. Used for display purposes on keys pasted by the user;
// the second return is false when the string does not even look like a key.
func DetectTier(plaintext string) (Tier, bool) {
	if !strings.HasPrefix(plaintext, Prefix+"_") {
		return "", false
	}
	rest := plaintext[len(Prefix)+1:]
	idx := strings.IndexByte(rest, '_')
	if idx <= 0 {
		return "", false
	}
	tier := Tier(rest[:idx])
	if tier.Valid() != nil {
		return "", false
	}
	return tier, true
}

// isHex reports whether s consists only of lowercase hex digits. No
// regexp, same rationale as identifier validation elsewhere: this runs on
// every verification and the rule is trivial.
func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return len(s) > 0
}
