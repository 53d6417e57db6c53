package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, size := pageParams(c)
	orders, err := h.Svc.ListOrders(ctx, uid, page, size)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, uid, orderID)
	if err != nil {
		status := statusFor(err)
		l.Warn("get_order_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.delete")

	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteOrder(ctx, orderID); err != nil {
		status := statusFor(err)
		l.Warn("delete_order_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}

	l.Info("order deleted", "order_id", orderID)
	return c.NoContent(http.StatusNoContent)
}
