// Package middleware provides shared request processing for handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/conduit/internal/auth"
	"github.com/iliyamo/conduit/internal/logger"
)

// The realworld front-ends send `Authorization: Token <token>` rather than
// the standard Bearer scheme.
const schemePrefix = "Token "

// UserIDKey is the echo context key under which the authenticated user's id
// is stored.  Handlers read it back as a uint64; zero means anonymous.
const UserIDKey = "user_id"

// attempt classifies what the Authorization header contained.  The public
// contract collapses attemptFailed into a 401, but keeping the three states
// separate makes the optional-auth path explicit instead of an accident of
// control flow.
type attempt int

const (
	attemptNone   attempt = iota // header absent
	attemptOK                    // header present and token verified
	attemptFailed                // header present but scheme or token bad
)

// principal extracts the caller identity from the Authorization header.
// Verification failures are logged with their cause; the response never
// says why a token was rejected.
func principal(c echo.Context, codec *auth.TokenCodec) (uint64, attempt) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return 0, attemptNone
	}
	if !strings.HasPrefix(header, schemePrefix) {
		logger.Named("auth").Debug("authorization header with wrong scheme",
			zap.String("path", c.Path()))
		return 0, attemptFailed
	}
	userID, err := codec.Verify(strings.TrimPrefix(header, schemePrefix))
	if err != nil {
		logger.Named("auth").Debug("token rejected",
			zap.String("path", c.Path()), zap.Error(err))
		return 0, attemptFailed
	}
	return userID, attemptOK
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
	return c.NoContent(http.StatusUnauthorized)
}

// RequireAuth rejects requests without a verified token.  An absent header,
// a wrong scheme, an invalid token and an expired token all produce the
// same bare 401.
func RequireAuth(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, att := principal(c, codec)
			if att != attemptOK {
				return unauthorized(c)
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// OptionalAuth lets anonymous requests through but still validates any
// Authorization header that is present: a failed attempt is a hard 401,
// not a silent downgrade to anonymous.
func OptionalAuth(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, att := principal(c, codec)
			switch att {
			case attemptFailed:
				return unauthorized(c)
			case attemptOK:
				c.Set(UserIDKey, userID)
			}
			return next(c)
		}
	}
}
