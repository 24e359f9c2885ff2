package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/conduit/internal/model"
	"github.com/iliyamo/conduit/internal/queue"
	"github.com/iliyamo/conduit/internal/repository"
	queue_publisher "github.com/iliyamo/conduit/internal/service"
	"github.com/iliyamo/conduit/internal/utils"
)

// ArticleHandler serves article CRUD, favorites, listing and the tag index.
type ArticleHandler struct {
	Articles *repository.ArticleRepo
}

func NewArticleHandler(articles *repository.ArticleRepo) *ArticleHandler {
	return &ArticleHandler{Articles: articles}
}

func articleJSON(c echo.Context, status int, a model.Article) error {
	return c.JSON(status, echo.Map{"article": a})
}

type createArticleRequest struct {
	Article struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

// Create handles POST /api/articles.  The slug is derived from the title;
// two articles whose titles slugify identically collide on the slug field.
func (h *ArticleHandler) Create(c echo.Context) error {
	var req createArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a := req.Article
	if strings.TrimSpace(a.Title) == "" {
		return validationFailed(c, "title", "title is required")
	}

	slug := utils.Slugify(a.Title)
	if slug == "" {
		return validationFailed(c, "title", "title must contain letters or digits")
	}
	art, err := h.Articles.Create(c.Request().Context(), getUserID(c),
		slug, a.Title, a.Description, a.Body, a.TagList)
	if err != nil {
		return httpError(c, err)
	}

	// Broker failures must not fail the request.
	go func(art model.Article) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishArticlePublished(ctx, queue.ArticlePublishedEvent{
			Slug:           art.Slug,
			Title:          art.Title,
			AuthorUsername: art.Author.Username,
			Tags:           art.TagList,
			PublishedAt:    art.CreatedAt.UTC().Format(time.RFC3339),
		})
	}(art)

	return articleJSON(c, http.StatusCreated, art)
}

// Get handles GET /api/articles/:slug.  Auth is optional; when present it
// determines the favorited and author.following flags.
func (h *ArticleHandler) Get(c echo.Context) error {
	art, err := h.Articles.GetBySlug(c.Request().Context(), getUserID(c), c.Param("slug"))
	if err != nil {
		return httpError(c, err)
	}
	return articleJSON(c, http.StatusOK, art)
}

type updateArticleRequest struct {
	Article struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	} `json:"article"`
}

// Update handles PUT /api/articles/:slug.  Only the owner may edit; a new
// title re-derives the slug, so the article's URL changes with it.
func (h *ArticleHandler) Update(c echo.Context) error {
	var req updateArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch := repository.ArticlePatch{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	}
	if req.Article.Title != nil {
		slug := utils.Slugify(*req.Article.Title)
		if slug == "" {
			return validationFailed(c, "title", "title must contain letters or digits")
		}
		patch.Slug = &slug
	}
	art, err := h.Articles.Update(c.Request().Context(), getUserID(c), c.Param("slug"), patch)
	if err != nil {
		return httpError(c, err)
	}
	return articleJSON(c, http.StatusOK, art)
}

// Delete handles DELETE /api/articles/:slug.  Only the owner may delete.
func (h *ArticleHandler) Delete(c echo.Context) error {
	if err := h.Articles.Delete(c.Request().Context(), getUserID(c), c.Param("slug")); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Favorite handles POST /api/articles/:slug/favorite.
func (h *ArticleHandler) Favorite(c echo.Context) error {
	art, err := h.Articles.Favorite(c.Request().Context(), getUserID(c), c.Param("slug"))
	if err != nil {
		return httpError(c, err)
	}
	return articleJSON(c, http.StatusOK, art)
}

// Unfavorite handles DELETE /api/articles/:slug/favorite.
func (h *ArticleHandler) Unfavorite(c echo.Context) error {
	art, err := h.Articles.Unfavorite(c.Request().Context(), getUserID(c), c.Param("slug"))
	if err != nil {
		return httpError(c, err)
	}
	return articleJSON(c, http.StatusOK, art)
}
