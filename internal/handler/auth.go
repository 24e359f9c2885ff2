package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/conduit/internal/auth"
	"github.com/iliyamo/conduit/internal/model"
	"github.com/iliyamo/conduit/internal/repository"
)

// UserHandler serves registration, login and the authenticated user's own
// account.
type UserHandler struct {
	Users  *repository.UserRepo
	Tokens *auth.TokenCodec
	Hasher *auth.Hasher
}

func NewUserHandler(users *repository.UserRepo, tokens *auth.TokenCodec, hasher *auth.Hasher) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, Hasher: hasher}
}

// userBody is the envelope every user endpoint returns.  The token is minted
// fresh on each response so clients can treat any of them as a session
// refresh.
type userBody struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      string  `json:"bio"`
	Image    *string `json:"image"`
}

func (h *UserHandler) userJSON(c echo.Context, status int, u model.User) error {
	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(status, echo.Map{"user": userBody{
		Email:    u.Email,
		Token:    token,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}})
}

type registerRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// Register handles POST /api/users.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u := req.User
	if strings.TrimSpace(u.Username) == "" {
		return validationFailed(c, "username", "username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return validationFailed(c, "email", "email is required")
	}
	if u.Password == "" {
		return validationFailed(c, "password", "password is required")
	}

	hash, err := h.Hasher.Hash(c.Request().Context(), u.Password)
	if err != nil {
		return httpError(c, err)
	}
	created, err := h.Users.Create(c.Request().Context(), u.Username, u.Email, hash)
	if err != nil {
		return httpError(c, err)
	}
	return h.userJSON(c, http.StatusCreated, created)
}

type loginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// Login handles POST /api/users/login.  An unknown email is reported as a
// field error while a wrong password yields a bare 401, so the two failure
// modes are intentionally distinguishable.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Users.GetByEmail(c.Request().Context(), req.User.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return validationFailed(c, "email", "does not exist")
	}
	if err != nil {
		return httpError(c, err)
	}
	ok, err := h.Hasher.Compare(c.Request().Context(), u.PasswordHash, req.User.Password)
	if err != nil {
		return httpError(c, err)
	}
	if !ok {
		return unauthorized(c)
	}
	return h.userJSON(c, http.StatusOK, u)
}

// Current handles GET /api/user.
func (h *UserHandler) Current(c echo.Context) error {
	u, err := h.Users.GetByID(c.Request().Context(), getUserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return h.userJSON(c, http.StatusOK, u)
}

type updateUserRequest struct {
	User struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

// Update handles PUT /api/user.  Absent fields keep their stored values; a
// present password is rehashed before it replaces the old one.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch := repository.UserPatch{
		Username: req.User.Username,
		Email:    req.User.Email,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	}
	if req.User.Password != nil {
		hash, err := h.Hasher.Hash(c.Request().Context(), *req.User.Password)
		if err != nil {
			return httpError(c, err)
		}
		patch.PasswordHash = &hash
	}
	u, err := h.Users.Update(c.Request().Context(), getUserID(c), patch)
	if err != nil {
		return httpError(c, err)
	}
	return h.userJSON(c, http.StatusOK, u)
}
