package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, c.Get(ContextKey).(string)) })
	e.POST("/submit", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.POST("/hook", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func issueToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	assert.Equal(t, token, rec.Body.String())
	return token
}

func TestCSRF_SafeMethodIssuesToken(t *testing.T) {
	e := newEcho(Config{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.Equal(t, rec.Header().Get("X-CSRF-Token"), cookies[0].Value)
}

func TestCSRF_PostWithMatchingHeader(t *testing.T) {
	e := newEcho(Config{})
	token := issueToken(t, e)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Host = "shop.local"
	req.Header.Set("Origin", "http://shop.local")
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCSRF_PostRejected(t *testing.T) {
	e := newEcho(Config{})
	token := issueToken(t, e)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Host = "shop.local"
		req.Header.Set("Origin", "http://shop.local")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Host = "shop.local"
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("X-CSRF-Token", token)
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCSRF_SkipPaths(t *testing.T) {
	e := newEcho(Config{SkipPaths: []string{"/hook"}})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("", ""))
	assert.False(t, secureCompare("abc", "ab"))
}
