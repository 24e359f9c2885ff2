package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/conduit/internal/config"
)

// routedCtx simulates a request that the router already matched against the
// articles slug pattern, the way the cache middleware sees it in production.
func routedCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/articles/:slug")
	c.SetParamNames("slug")
	return c
}

func TestCacheKeyDistinguishesSlugs(t *testing.T) {
	a := cacheKey("cache", routedCtx("/api/articles/first-article"))
	b := cacheKey("cache", routedCtx("/api/articles/completely-different"))
	assert.NotEqual(t, a, b, "different slugs must not share a cache entry")
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	a := cacheKey("cache", routedCtx("/api/articles?tag=go"))
	b := cacheKey("cache", routedCtx("/api/articles?tag=rust"))
	assert.NotEqual(t, a, b)
}

func TestCacheKeyStableForSameURL(t *testing.T) {
	a := cacheKey("cache", routedCtx("/api/articles/first-article"))
	b := cacheKey("cache", routedCtx("/api/articles/first-article"))
	assert.Equal(t, a, b)
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)

	c := routedCtx("/api/articles/first-article")
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, err)
	assert.True(t, called)
}
