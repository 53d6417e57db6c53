package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/config"
)

const (
	CurrencyINR = "INR"
	keyIDPrefix = "rzp_"
)

var (
	ErrNotConfigured  = errors.New("payment gateway not configured")
	ErrGatewayRequest = errors.New("payment gateway request failed")
)

// Gateway wraps a remote payment service. Both operations fail closed.
type Gateway interface {
	Enabled() bool
	KeyID() string
	OpenOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	Verify(orderID, paymentID, signature string) (bool, error)
}

// GatewayError carries transport, credential and non-2xx failures. Err is
// the SDK error when the gateway answered with one.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGatewayRequest}
	}
	return []error{ErrGatewayRequest, e.Err}
}

// New returns a Razorpay client when credentials look usable, otherwise a
// Disabled gateway.
func New(cfg config.Razorpay) Gateway {
	if !Configured(cfg.KeyID, cfg.KeySecret) {
		return Disabled{}
	}
	return NewRazorpay(cfg.KeyID, cfg.KeySecret, cfg.BaseURL)
}

func Configured(keyID, keySecret string) bool {
	keyID, keySecret = strings.TrimSpace(keyID), strings.TrimSpace(keySecret)
	if keyID == "" || keySecret == "" {
		return false
	}
	return strings.HasPrefix(keyID, keyIDPrefix)
}

// MinorUnits converts a major-unit amount to paise, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type Disabled struct{}

func (Disabled) Enabled() bool { return false }
func (Disabled) KeyID() string { return "" }

func (Disabled) OpenOrder(context.Context, int64, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Verify(string, string, string) (bool, error) {
	return false, ErrNotConfigured
}
