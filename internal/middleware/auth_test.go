package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/conduit/internal/auth"
)

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	return auth.NewTokenCodec([]byte("test-key"), time.Hour)
}

// echoCall runs a request through the given middleware in front of a handler
// that reports the user id it saw.
func echoCall(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, uint64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen uint64
	h := mw(func(c echo.Context) error {
		if v, ok := c.Get(UserIDKey).(uint64); ok {
			seen = v
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestRequireAuthValidToken(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(42)
	require.NoError(t, err)

	rec, seen := echoCall(t, RequireAuth(codec), "Token "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), seen)
}

func TestRequireAuthRejects(t *testing.T) {
	codec := newTestCodec(t)
	valid, err := codec.Issue(42)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"bearer scheme":  "Bearer " + valid,
		"bare token":     valid,
		"garbage token":  "Token not.a.token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, seen := echoCall(t, RequireAuth(codec), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Token", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Zero(t, seen)
		})
	}
}

func TestOptionalAuthAnonymous(t *testing.T) {
	codec := newTestCodec(t)

	rec, seen := echoCall(t, OptionalAuth(codec), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, seen)
}

func TestOptionalAuthValidToken(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(7)
	require.NoError(t, err)

	rec, seen := echoCall(t, OptionalAuth(codec), "Token "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), seen)
}

func TestOptionalAuthBadTokenStillRejected(t *testing.T) {
	codec := newTestCodec(t)

	rec, seen := echoCall(t, OptionalAuth(codec), "Token bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, seen)
}
