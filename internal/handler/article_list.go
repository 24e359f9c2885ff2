package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/conduit/internal/model"
	"github.com/iliyamo/conduit/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageParams reads limit/offset from the query string, clamping them to
// sane bounds. Malformed values fall back to the defaults.
func pageParams(c echo.Context) (limit, offset int64) {
	limit = defaultPageLimit
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 64); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func articlesJSON(c echo.Context, articles []model.Article) error {
	return c.JSON(http.StatusOK, echo.Map{
		"articles":      articles,
		"articlesCount": len(articles),
	})
}

// List handles GET /api/articles with optional tag/author/favorited filters.
// articlesCount reflects the returned page, not the unfiltered total.
func (h *ArticleHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	articles, err := h.Articles.List(c.Request().Context(), getUserID(c), repository.ArticleFilter{
		Tag:         c.QueryParam("tag"),
		Author:      c.QueryParam("author"),
		FavoritedBy: c.QueryParam("favorited"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return httpError(c, err)
	}
	return articlesJSON(c, articles)
}

// Feed handles GET /api/articles/feed: recent articles by followed authors.
func (h *ArticleHandler) Feed(c echo.Context) error {
	limit, offset := pageParams(c)
	articles, err := h.Articles.Feed(c.Request().Context(), getUserID(c), limit, offset)
	if err != nil {
		return httpError(c, err)
	}
	return articlesJSON(c, articles)
}

// Tags handles GET /api/tags.
func (h *ArticleHandler) Tags(c echo.Context) error {
	tags, err := h.Articles.Tags(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}
