// Package auth provides session token signing/verification and password
// hashing.  Both take their keys and limits explicitly at construction;
// nothing here reads global state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is returned by Verify when the token cannot be parsed,
// declares a signing algorithm other than HS384, or carries a signature
// that does not match.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is returned by Verify when the token is well formed and
// correctly signed but its expiry lies in the past.
var ErrTokenExpired = errors.New("token expired")

// DefaultSessionLength is how long an issued token stays valid.
const DefaultSessionLength = 14 * 24 * time.Hour

// TokenCodec signs and verifies stateless session tokens.  Claims are
// {sub: user id, exp: unix seconds}, signed with HMAC-SHA-384.  SHA-384 was
// chosen over the more common SHA-256 variant for a larger brute-force
// margin at the cost of a slightly longer token.
//
// There is no revocation mechanism: a token stays valid until its expiry no
// matter what happens server-side.  That is a known property of this design,
// not an oversight; adding logout-before-expiry would require a revocation
// side-store.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec builds a codec around the given symmetric key.  Any key
// length is accepted by the HMAC primitive.  A non-positive ttl falls back
// to DefaultSessionLength.
func NewTokenCodec(key []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultSessionLength
	}
	return &TokenCodec{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a new token for the given user expiring ttl from now.
func (tc *TokenCodec) Issue(userID uint64) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": tc.now().UTC().Add(tc.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	return t.SignedString(tc.key)
}

// Verify parses and validates a token and returns the user id it was issued
// for.  The declared signing algorithm must be HS384 before the signature is
// trusted; tokens signed with any other method are rejected even if the
// signature would otherwise check out under the shared key.
func (tc *TokenCodec) Verify(token string) (uint64, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return tc.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS384.Alg()}), jwt.WithTimeFunc(tc.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	// Numeric JSON values decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrTokenInvalid
	}
	return uint64(sub), nil
}
