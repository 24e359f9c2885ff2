package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func queryCtx(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/articles?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query  string
		limit  int64
		offset int64
	}{
		{"", 20, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=0", 20, 0},
		{"limit=-3&offset=-1", 20, 0},
		{"limit=9999", 100, 0},
		{"limit=abc&offset=xyz", 20, 0},
	}
	for _, tc := range cases {
		limit, offset := pageParams(queryCtx(tc.query))
		assert.Equal(t, tc.limit, limit, "query %q", tc.query)
		assert.Equal(t, tc.offset, offset, "query %q", tc.query)
	}
}
