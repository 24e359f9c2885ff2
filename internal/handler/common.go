// Package handler implements the HTTP endpoints.  Handlers bind request
// bodies, call into the repository layer and translate its errors onto the
// status-code contract: 401 and 403 carry no body detail, 404 carries none
// either, 422 carries a field-keyed message list, anything unexpected is a
// bare 500 with the cause logged server-side only.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/conduit/internal/logger"
	"github.com/iliyamo/conduit/internal/middleware"
	"github.com/iliyamo/conduit/internal/repository"
)

// getUserID extracts the authenticated user's id placed in the context by
// the auth middleware.  Zero means anonymous, which only ever reaches
// handlers behind OptionalAuth.
func getUserID(c echo.Context) uint64 {
	if v, ok := c.Get(middleware.UserIDKey).(uint64); ok {
		return v
	}
	return 0
}

// validationBody is the 422 response shape: a mapping from field name to an
// ordered list of messages.
func validationBody(field, message string) echo.Map {
	return echo.Map{"errors": map[string][]string{field: {message}}}
}

func validationFailed(c echo.Context, field, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, validationBody(field, message))
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
	return c.NoContent(http.StatusUnauthorized)
}

// httpError maps repository errors onto responses.  Anything unrecognized
// is logged and reported as an opaque 500.
func httpError(c echo.Context, err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.NoContent(http.StatusNotFound)
	case errors.Is(err, repository.ErrForbidden):
		return c.NoContent(http.StatusForbidden)
	case errors.As(err, &ve):
		return validationFailed(c, ve.Field, ve.Message)
	default:
		logger.Named("http").Error("request failed",
			zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// Health is a minimal liveness endpoint for load balancers.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
