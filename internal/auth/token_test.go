package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tc := NewTokenCodec([]byte("test-key"), time.Hour)

	token, err := tc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenExpired(t *testing.T) {
	tc := NewTokenCodec([]byte("test-key"), time.Hour)

	token, err := tc.Issue(7)
	require.NoError(t, err)

	// Move the codec clock past the expiry before verifying.
	tc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = tc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTamperedSignature(t *testing.T) {
	tc := NewTokenCodec([]byte("test-key"), time.Hour)

	token, err := tc.Issue(7)
	require.NoError(t, err)

	// Flip one bit near the end of the signature segment.
	b := []byte(token)
	b[len(b)-2] ^= 0x01
	_, err = tc.Verify(string(b))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongKey(t *testing.T) {
	issuer := NewTokenCodec([]byte("key-one"), time.Hour)
	verifier := NewTokenCodec([]byte("key-two"), time.Hour)

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRejectsOtherSigningMethod(t *testing.T) {
	key := []byte("test-key")
	tc := NewTokenCodec(key, time.Hour)

	// Correctly signed under the shared key but declaring HS256.
	claims := jwt.MapClaims{
		"sub": uint64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)

	_, err = tc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	tc := NewTokenCodec([]byte("test-key"), time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tc.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestTokenDefaultTTL(t *testing.T) {
	tc := NewTokenCodec([]byte("test-key"), 0)
	assert.Equal(t, DefaultSessionLength, tc.ttl)
}
