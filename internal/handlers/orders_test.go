package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

func TestOrderHandlers(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r}}
	owner := seedUser(t, r, "hank")
	other := seedUser(t, r, "ivy")
	p := seedProduct(t, r, "Chair", "20.00")

	order := &models.Order{
		UserID:          owner.ID,
		TotalAmount:     decimal.RequireFromString("20.00"),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   models.PaymentMethodMock,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}},
	}
	require.NoError(t, r.CreateOrder(context.Background(), order))
	id := strconv.FormatUint(uint64(order.ID), 10)

	c, rec := newContext(http.MethodGet, "/api/v1/orders", nil, "", owner.ID)
	require.NoError(t, h.ListOrders(c))
	var list []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	c, rec = newContext(http.MethodGet, "/api/v1/orders/"+id, nil, "", owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.GetOrder(c))
	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Items, 1)

	c, _ = newContext(http.MethodGet, "/api/v1/orders/"+id, nil, "", other.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	assert.Equal(t, http.StatusForbidden, httpCode(t, h.GetOrder(c)))

	c, rec = newContext(http.MethodDelete, "/api/v1/admin/orders/"+id, nil, "", owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.DeleteOrder(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newContext(http.MethodDelete, "/api/v1/admin/orders/"+id, nil, "", owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	assert.Equal(t, http.StatusNotFound, httpCode(t, h.DeleteOrder(c)))
}
