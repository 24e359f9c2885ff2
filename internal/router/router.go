// Package router wires HTTP routes to their handlers and per-route
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/conduit/internal/auth"
	"github.com/iliyamo/conduit/internal/config"
	"github.com/iliyamo/conduit/internal/handler"
	"github.com/iliyamo/conduit/internal/middleware"
)

// RegisterRoutes registers routes that sit outside the API surface.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Handlers bundles everything RegisterAPI needs to wire the /api surface.
type Handlers struct {
	Users    *handler.UserHandler
	Profiles *handler.ProfileHandler
	Articles *handler.ArticleHandler
	Comments *handler.CommentHandler
}

// RegisterAPI registers the full /api surface.  Three access levels exist:
// open (register, login), optionally authenticated reads (a token, when
// present, personalizes the favorited/following flags) and required-auth
// writes.  The Redis response cache fronts only the read endpoints that are
// identical for every anonymous viewer.
func RegisterAPI(e *echo.Echo, h Handlers, codec *auth.TokenCodec, cacheCfg config.CacheConfig, rdb *redis.Client) {
	api := e.Group("/api")

	requireAuth := middleware.RequireAuth(codec)
	optionalAuth := middleware.OptionalAuth(codec)
	cached := middleware.ResponseCache(cacheCfg, rdb)

	// Users and the current session.
	api.POST("/users", h.Users.Register)
	api.POST("/users/login", h.Users.Login)
	api.GET("/user", h.Users.Current, requireAuth)
	api.PUT("/user", h.Users.Update, requireAuth)

	// Profiles and follows.
	api.GET("/profiles/:username", h.Profiles.Get, optionalAuth)
	api.POST("/profiles/:username/follow", h.Profiles.Follow, requireAuth)
	api.DELETE("/profiles/:username/follow", h.Profiles.Unfollow, requireAuth)

	// Articles.  Listing and single reads personalize when a token is sent,
	// so the cache middleware itself skips any request carrying one.
	api.GET("/articles", h.Articles.List, optionalAuth, cached)
	api.GET("/articles/feed", h.Articles.Feed, requireAuth)
	api.POST("/articles", h.Articles.Create, requireAuth)
	api.GET("/articles/:slug", h.Articles.Get, optionalAuth, cached)
	api.PUT("/articles/:slug", h.Articles.Update, requireAuth)
	api.DELETE("/articles/:slug", h.Articles.Delete, requireAuth)

	// Favorites.
	api.POST("/articles/:slug/favorite", h.Articles.Favorite, requireAuth)
	api.DELETE("/articles/:slug/favorite", h.Articles.Unfavorite, requireAuth)

	// Comments.
	api.GET("/articles/:slug/comments", h.Comments.List, optionalAuth)
	api.POST("/articles/:slug/comments", h.Comments.Add, requireAuth)
	api.DELETE("/articles/:slug/comments/:id", h.Comments.Delete, requireAuth)

	// Tag index.
	api.GET("/tags", h.Articles.Tags, cached)
}
