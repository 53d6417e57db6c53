package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type CheckoutHTTP struct {
	Svc *checkout.Service
}

func (h *CheckoutHTTP) Begin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.begin")

	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.Svc.Begin(ctx, id)
	if err != nil {
		status := statusFor(err)
		l.Warn("checkout_error", "status", status, "error", err)
		if errors.Is(err, checkout.ErrEmptyCart) {
			return c.JSON(status, map[string]string{"message": "your cart is empty", "redirect": "/cart"})
		}
		return echo.NewHTTPError(status, message(status, err))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items":           summary.Items,
		"total":           summary.Total,
		"gateway_enabled": h.Svc.GatewayEnabled(),
	})
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ShippingAddress string `json:"shipping_address" form:"shipping_address"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.Submit(ctx, id, req.ShippingAddress)
	if err != nil {
		status := statusFor(err)
		l.Warn("checkout_error", "status", status, "error", err)
		if errors.Is(err, checkout.ErrEmptyCart) {
			return c.JSON(status, map[string]string{"message": "your cart is empty", "redirect": "/cart"})
		}
		return echo.NewHTTPError(status, message(status, err))
	}

	return c.JSON(http.StatusCreated, view)
}

// VerifyRazorpay always answers with a status/message body so the payment
// widget callback can render the outcome.
func (h *CheckoutHTTP) VerifyRazorpay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.razorpay.verify")

	id, err := identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, Response{Status: "error", Message: "unauthorized"})
	}

	var res checkout.PaymentResult
	if err := c.Bind(&res); err != nil {
		l.Warn("verify_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid body"})
	}

	order, err := h.Svc.Reconcile(ctx, id, res)
	if err != nil {
		status := statusFor(err)
		l.Warn("verify_error", "status", status, "error", err)
		return c.JSON(status, Response{Status: "error", Message: verifyMessage(status, err)})
	}

	l.Info("payment verified", "order_id", order.ID)
	return c.JSON(http.StatusOK, Response{Status: "success", Message: "payment verified"})
}

func verifyMessage(status int, err error) string {
	switch {
	case errors.Is(err, checkout.ErrMissingFields):
		return "missing payment details"
	case errors.Is(err, checkout.ErrInvalidSignature):
		return "payment verification failed"
	case errors.Is(err, checkout.ErrNotFound):
		return "order not found"
	case errors.Is(err, checkout.ErrAccessDenied):
		return "access denied"
	}
	return message(status, err)
}

func (h *CheckoutHTTP) MockConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.mock")

	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := paramID(c, "order_id")
	if err != nil {
		return err
	}

	order, err := h.Svc.MockConfirm(ctx, id, orderID)
	if err != nil {
		status := statusFor(err)
		l.Warn("mock_payment_error", "status", status, "error", err)
		return echo.NewHTTPError(status, message(status, err))
	}

	return c.JSON(http.StatusOK, order)
}
