package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/tokens"
)

var secret = []byte("mw-secret")

type fakeRefresher struct {
	pair  *tokens.Pair
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	f.calls++
	return f.pair, f.err
}

func run(t *testing.T, mw echo.MiddlewareFunc, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func accessCookie(t *testing.T, id uint, role string, exp time.Time) *http.Cookie {
	t.Helper()
	tok, err := tokens.SignAccess(id, role, exp, secret)
	require.NoError(t, err)
	return &http.Cookie{Name: tokens.AccessCookie, Value: tok}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth_ValidAccess(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{})

	rec, c, err := run(t, m.RequireAuth, accessCookie(t, 7, "user", time.Now().Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), c.Get(UserIDKey))
	assert.Equal(t, "user", c.Get(RoleKey))
}

func TestRequireAuth_NoCookies(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{})
	_, _, err := run(t, m.RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestRequireAuth_GarbageAccess(t *testing.T) {
	ref := &fakeRefresher{}
	m := NewAutoRefreshMiddleware(secret, ref)
	_, _, err := run(t, m.RequireAuth, &http.Cookie{Name: tokens.AccessCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	assert.Zero(t, ref.calls)
}

func TestRequireAuth_ExpiredAccessRefreshes(t *testing.T) {
	newAccess, err := tokens.SignAccess(9, "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)
	ref := &fakeRefresher{pair: &tokens.Pair{
		AccessToken:  newAccess,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
	}}
	m := NewAutoRefreshMiddleware(secret, ref)

	rec, c, err := run(t, m.RequireAuth,
		accessCookie(t, 9, "user", time.Now().Add(-time.Minute)),
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.calls)
	assert.Equal(t, uint(9), c.Get(UserIDKey))

	names := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = ck.Value
	}
	assert.Equal(t, newAccess, names[tokens.AccessCookie])
	assert.Equal(t, "new-refresh", names[tokens.RefreshCookie])
}

func TestRequireAuth_RefreshFails(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{err: errors.New("revoked")})
	_, _, err := run(t, m.RequireAuth, &http.Cookie{Name: tokens.RefreshCookie, Value: "old"})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestRequireAdmin(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{})

	_, _, err := run(t, m.RequireAdmin, accessCookie(t, 1, "user", time.Now().Add(time.Minute)))
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	rec, _, err := run(t, m.RequireAdmin, accessCookie(t, 1, "admin", time.Now().Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
