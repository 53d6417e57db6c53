package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/events/eventstest"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestOrderService_OwnershipAndDelete(t *testing.T) {
	r := newTestRepo(t)
	rec := &eventstest.Recorder{}
	svc := &OrderService{Repo: r, Events: rec}
	ctx := context.Background()

	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")
	p := seedProduct(t, r, "Mug", "9.50")

	order := &models.Order{
		UserID:          alice.ID,
		TotalAmount:     decimal.RequireFromString("19.00"),
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItem{{ProductID: p.ID, Quantity: 2, Price: p.Price}},
	}
	require.NoError(t, r.CreateOrder(ctx, order))

	list, err := svc.ListOrders(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	empty, err := svc.ListOrders(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	got, err := svc.GetOrder(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = svc.GetOrder(ctx, bob.ID, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetOrder(ctx, alice.ID, order.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), ErrNotFound)
	assert.Len(t, rec.Topic(events.TopicOrder), 1)
}
