package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/conduit/internal/middleware"
	"github.com/iliyamo/conduit/internal/repository"
)

func newCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"wrapped not found", errors.Join(errors.New("ctx"), repository.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newCtx(t)
			require.NoError(t, httpError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHTTPErrorValidation(t *testing.T) {
	c, rec := newCtx(t)
	err := &repository.ValidationError{Field: "email", Message: "email is taken"}
	require.NoError(t, httpError(c, err))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"email":["email is taken"]}}`, rec.Body.String())
}

func TestHTTPErrorHidesInternalCause(t *testing.T) {
	c, rec := newCtx(t)
	require.NoError(t, httpError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestGetUserID(t *testing.T) {
	c, _ := newCtx(t)
	assert.Zero(t, getUserID(c))

	c.Set(middleware.UserIDKey, uint64(42))
	assert.Equal(t, uint64(42), getUserID(c))
}

func TestUnauthorizedSetsChallenge(t *testing.T) {
	c, rec := newCtx(t)
	require.NoError(t, unauthorized(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Empty(t, rec.Body.String())
}
