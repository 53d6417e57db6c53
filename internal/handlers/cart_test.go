package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/events/eventstest"
	"github.com/Skotchmaster/storefront/internal/service"
)

func TestCartHandlers(t *testing.T) {
	r := newTestRepo(t)
	rec := &eventstest.Recorder{}
	h := &CartHTTP{Svc: &service.CartService{Repo: r, Events: rec}}
	user := seedUser(t, r, "carol")
	p := seedProduct(t, r, "Mug", "7.50")
	pid := strconv.FormatUint(uint64(p.ID), 10)

	body := `{"product_id":` + pid + `,"quantity":2}`
	c, res := newContext(http.MethodPost, "/api/v1/cart", strings.NewReader(body), echo.MIMEApplicationJSON, user.ID)
	require.NoError(t, h.AddToCart(c))
	assert.Equal(t, http.StatusCreated, res.Code)

	c, res = newContext(http.MethodGet, "/api/v1/cart", nil, "", user.ID)
	require.NoError(t, h.GetCart(c))
	var view service.CartView
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "15.00", view.Total.StringFixed(2))

	c, res = newContext(http.MethodPatch, "/api/v1/cart/items/"+pid, strings.NewReader(`{"quantity":0}`), echo.MIMEApplicationJSON, user.ID)
	c.SetParamNames("product_id")
	c.SetParamValues(pid)
	require.NoError(t, h.UpdateItem(c))
	assert.Contains(t, res.Body.String(), "item removed from cart")

	c, res = newContext(http.MethodGet, "/api/v1/cart", nil, "", user.ID)
	require.NoError(t, h.GetCart(c))
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &view))
	assert.Empty(t, view.Items)

	assert.Len(t, rec.Topic(events.TopicCart), 2)
}

func TestCartHandlers_Errors(t *testing.T) {
	r := newTestRepo(t)
	h := &CartHTTP{Svc: &service.CartService{Repo: r}}
	user := seedUser(t, r, "dave")

	c, _ := newContext(http.MethodGet, "/api/v1/cart", nil, "", 0)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.GetCart(c)))

	c, _ = newContext(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"product_id":999,"quantity":1}`), echo.MIMEApplicationJSON, user.ID)
	assert.Equal(t, http.StatusNotFound, httpCode(t, h.AddToCart(c)))

	c, _ = newContext(http.MethodPatch, "/api/v1/cart/items/1", strings.NewReader(`{}`), echo.MIMEApplicationJSON, user.ID)
	c.SetParamNames("product_id")
	c.SetParamValues("1")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, h.UpdateItem(c)))
}
