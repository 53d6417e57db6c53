package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	uid, err := userID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	uid, err := userID(c)
	if err != nil {
		l.Error("add_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uint `json:"product_id" form:"product_id"`
		Quantity  uint `json:"quantity"   form:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, uid, req.ProductID, req.Quantity)
	if err != nil {
		status := statusFor(err)
		l.Warn("add_to_cart_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}

	l.Info("item added to cart", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.item")

	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	var req struct {
		Quantity *int `json:"quantity" form:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "quantity required")
	}

	item, deleted, err := h.Svc.UpdateQuantity(ctx, uid, productID, *req.Quantity)
	if err != nil {
		status := statusFor(err)
		l.Warn("update_cart_item_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	if deleted {
		return c.JSON(http.StatusOK, map[string]string{"message": "item removed from cart"})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart.item")

	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveFromCart(ctx, uid, productID); err != nil {
		status := statusFor(err)
		l.Warn("remove_cart_item_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item removed from cart"})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.ClearCart(ctx, uid); err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("cart successfully cleared")
	return c.JSON(http.StatusOK, map[string]string{"message": "cart successfully cleared"})
}
