package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/handlers"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/testdb"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

var secret = []byte("router-secret")

func newServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()
	store := repo.New(testdb.New(t))

	authSvc := &service.AuthService{Repo: store, JWTSecret: secret, RefreshSecret: secret}
	catalog := &service.CatalogService{Repo: store}

	e := echo.New()
	Register(e, &Deps{
		DB:   store,
		Auth: middleware.NewAutoRefreshMiddleware(secret, authSvc),
		CSRF: csrf.DefaultConfig(),

		AuthHandler:     &handlers.AuthHTTP{Svc: authSvc},
		CatalogHandler:  &handlers.CatalogHTTP{Svc: catalog},
		CartHandler:     &handlers.CartHTTP{Svc: &service.CartService{Repo: store}},
		CheckoutHandler: &handlers.CheckoutHTTP{Svc: checkout.New(checkout.NewStore(store), nil, nil)},
		OrderHandler:    &handlers.OrderHTTP{Svc: &service.OrderService{Repo: store}},
		UploadHandler:   &handlers.UploadHTTP{Bucket: "uploads"},
	})
	return e, store
}

func accessCookie(t *testing.T, userID uint, role string) *http.Cookie {
	t.Helper()
	exp := time.Now().Add(time.Minute)
	tok, err := tokens.SignAccess(userID, role, exp, secret)
	require.NoError(t, err)
	return tokens.CreateCookie(tokens.AccessCookie, tok, "/", exp)
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := newServer(t)

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Code)
}

func TestPublicCatalog(t *testing.T) {
	e, _ := newServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutes(t *testing.T) {
	e, store := newServer(t)
	ctx := context.Background()

	user := &models.User{Username: "jo", Email: "jo@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, store.CreateUser(ctx, user))
	p := &models.Product{Name: "Pen", Description: "Pen", Price: decimal.RequireFromString("1.25")}
	require.NoError(t, store.CreateProduct(ctx, p))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(accessCookie(t, user.ID, models.RoleUser))
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	csrfToken := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, csrfToken)

	body := `{"product_id":` + strconv.FormatUint(uint64(p.ID), 10) + `,"quantity":1}`

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(accessCookie(t, user.ID, models.RoleUser))
	rec = serve(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	req.Host = "shop.local"
	req.Header.Set("Origin", "http://shop.local")
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.AddCookie(accessCookie(t, user.ID, models.RoleUser))
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: csrfToken})
	rec = serve(e, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	req.AddCookie(accessCookie(t, 7, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, serve(e, req).Code)
}
