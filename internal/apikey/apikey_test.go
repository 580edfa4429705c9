package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintLayout(t *testing.T) {
	for _, tier := range []Tier{TierHobby, TierPro, TierElite} {
		t.Run(tier.String(), func(t *testing.T) {
			secret, err := Mint(tier)
			require.NoError(t, err)

			parts := strings.Split(secret.Plaintext, "_")
			require.Len(t, parts, 3)
			assert.Equal(t, "sk", parts[0])
			assert.Equal(t, tier.String(), parts[1])
			assert.Len(t, parts[2], 32)
			assert.True(t, isHex(parts[2]))

			parsed, err := Parse(secret.Plaintext)
			require.NoError(t, err)
			assert.Equal(t, tier, parsed)
		})
	}
}

func TestMintUnknownTier(t *testing.T) {
	_, err := Mint(Tier("enterprise"))
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestHintDerivation(t *testing.T) {
	secret, err := Mint(TierPro)
	require.NoError(t, err)

	want := secret.Plaintext[:7] + "..." + secret.Plaintext[len(secret.Plaintext)-4:]
	assert.Equal(t, want, secret.Hint)

	// The hint leaks 11 characters of a 39+ character key; it must not be
	// enough to reconstruct the plaintext.
	assert.Less(t, len(secret.Hint), len(secret.Plaintext))
	assert.NotContains(t, secret.Hint, secret.Plaintext[10:20])
}

func TestDigestDeterminism(t *testing.T) {
	secret, err := Mint(TierHobby)
	require.NoError(t, err)
	assert.Equal(t, Digest(secret.Plaintext), Digest(secret.Plaintext))

	other, err := Mint(TierHobby)
	require.NoError(t, err)
	assert.NotEqual(t, Digest(secret.Plaintext), Digest(other.Plaintext))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		mustError bool
	}{
		{"valid hobby key", "sk_hobby_0123456789abcdef0123456789abcdef", false},
		{"valid elite key", "sk_elite_ffffffffffffffffffffffffffffffff", false},
		{"missing prefix", "pk_hobby_0123456789abcdef0123456789abcdef", true},
		{"unknown tier", "sk_mega_0123456789abcdef0123456789abcdef", true},
		{"short random", "sk_pro_0123abcd", true},
		{"uppercase hex", "sk_pro_0123456789ABCDEF0123456789ABCDEF", true},
		{"extra separator", "sk_pro_extra_0123456789abcdef0123456789abcdef", true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if tc.mustError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDetectTier(t *testing.T) {
	tests := []struct {
		input string
		tier  Tier
		ok    bool
	}{
		{"sk_hobby_0123456789abcdef0123456789abcdef", TierHobby, true},
		{"sk_pro_whatever", TierPro, true},
		{"sk_elite_x", TierElite, true},
		{"sk_mega_x", "", false},
		{"hobby_x", "", false},
		{"sk_", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			tier, ok := DetectTier(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.tier, tier)
		})
	}
}

func TestStoredRoundTrip(t *testing.T) {
	secret, err := Mint(TierPro)
	require.NoError(t, err)

	stored := secret.StoredForm()
	assert.True(t, strings.HasPrefix(stored, "v1:"))
	assert.NotContains(t, stored, secret.Plaintext)

	parsed, err := ParseStored(stored)
	require.NoError(t, err)
	assert.Equal(t, secret.Hint, parsed.Hint)
	assert.True(t, parsed.Verify(secret.Plaintext))
	assert.False(t, parsed.Verify(secret.Plaintext+"x"))
}

func TestParseStored(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		mustError bool
	}{
		{"valid", "v1:sk_prob...cdef:" + Digest("x"), false},
		{"unsupported version", "v2:hint:" + Digest("x"), true},
		{"missing digest", "v1:hint", true},
		{"non-hex digest", "v1:hint:zzzz", true},
		{"empty hint", "v1::" + Digest("x"), true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStored(tc.input)
			if tc.mustError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyStored(t *testing.T) {
	secret, err := Mint(TierElite)
	require.NoError(t, err)

	ok, err := VerifyStored(secret.StoredForm(), secret.Plaintext)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = VerifyStored("garbage", secret.Plaintext)
	assert.Error(t, err)
}
