package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/checkout"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
)

var errUnauthorized = errors.New("unauthorized")

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func userID(c echo.Context) (uint, error) {
	id, ok := c.Get(middleware.UserIDKey).(uint)
	if !ok || id == 0 {
		return 0, errUnauthorized
	}
	return id, nil
}

func identity(c echo.Context) (checkout.Identity, error) {
	id, err := userID(c)
	if err != nil {
		return checkout.Identity{}, err
	}
	return checkout.Identity{UserID: id}, nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, ok := util.ParseUint(c.Param(name))
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// statusFor maps service and checkout errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, checkout.ErrValidation),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, checkout.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound), errors.Is(err, checkout.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, payment.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// message hides internal error detail behind a generic text for 5xx.
func message(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
