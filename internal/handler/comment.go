package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/conduit/internal/repository"
)

// CommentHandler serves the comments attached to an article.
type CommentHandler struct {
	Comments *repository.CommentRepo
}

func NewCommentHandler(comments *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

type addCommentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// Add handles POST /api/articles/:slug/comments.
func (h *CommentHandler) Add(c echo.Context) error {
	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Comment.Body) == "" {
		return validationFailed(c, "body", "body is required")
	}
	cm, err := h.Comments.Add(c.Request().Context(), getUserID(c), c.Param("slug"), req.Comment.Body)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": cm})
}

// List handles GET /api/articles/:slug/comments.  Auth is optional; when
// present it determines each comment author's `following` flag.
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.Comments.ListBySlug(c.Request().Context(), getUserID(c), c.Param("slug"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// Delete handles DELETE /api/articles/:slug/comments/:id.  Only the comment
// author may delete; a comment someone else wrote is 403, a missing one 404.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := h.Comments.Delete(c.Request().Context(), getUserID(c), c.Param("slug"), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
