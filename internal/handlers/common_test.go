package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("name: %w", service.ErrValidation), http.StatusBadRequest},
		{checkout.ErrMissingFields, http.StatusBadRequest},
		{checkout.ErrEmptyCart, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", checkout.ErrInvalidSignature, payment.ErrNotConfigured), http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{checkout.ErrAccessDenied, http.StatusForbidden},
		{service.ErrForbidden, http.StatusForbidden},
		{checkout.ErrNotFound, http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{gorm.ErrDuplicatedKey, http.StatusConflict},
		{service.ErrTooManyAttempts, http.StatusTooManyRequests},
		{fmt.Errorf("%w: boom", checkout.ErrPersistence), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestMessageHidesServerErrors(t *testing.T) {
	assert.Equal(t, "internal server error", message(500, errors.New("dsn leaked")))
	assert.Equal(t, "cart is empty", message(400, checkout.ErrEmptyCart))
}
