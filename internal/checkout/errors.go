package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation")
	ErrMissingFields      = fmt.Errorf("missing payment fields: %w", ErrValidation)
	ErrAccessDenied       = errors.New("access denied")
	ErrNotFound           = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPersistence        = errors.New("persistence failure")
)
