package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/conduit/internal/model"
	"github.com/iliyamo/conduit/internal/repository"
)

// ProfileHandler serves public profiles and the follow relationship.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(profiles *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles}
}

func profileJSON(c echo.Context, p model.Profile) error {
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

// Get handles GET /api/profiles/:username.  Auth is optional; when present
// it determines the `following` flag.
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := h.Profiles.GetByUsername(c.Request().Context(), getUserID(c), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return profileJSON(c, p)
}

// Follow handles POST /api/profiles/:username/follow.
func (h *ProfileHandler) Follow(c echo.Context) error {
	p, err := h.Profiles.Follow(c.Request().Context(), getUserID(c), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return profileJSON(c, p)
}

// Unfollow handles DELETE /api/profiles/:username/follow.
func (h *ProfileHandler) Unfollow(c echo.Context) error {
	p, err := h.Profiles.Unfollow(c.Request().Context(), getUserID(c), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return profileJSON(c, p)
}
