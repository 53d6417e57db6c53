package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/config"
)

func TestNew_Toggles(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.Razorpay
		enabled bool
	}{
		{"both present", config.Razorpay{KeyID: "rzp_test_1", KeySecret: "s"}, true},
		{"missing secret", config.Razorpay{KeyID: "rzp_test_1"}, false},
		{"missing key", config.Razorpay{KeySecret: "s"}, false},
		{"wrong prefix", config.Razorpay{KeyID: "pk_live_1", KeySecret: "s"}, false},
		{"blank", config.Razorpay{KeyID: "  ", KeySecret: "  "}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.enabled, New(tc.cfg).Enabled())
		})
	}
}

func TestDisabled_ShortCircuits(t *testing.T) {
	g := Disabled{}
	assert.Empty(t, g.KeyID())

	_, err := g.OpenOrder(context.Background(), 100, CurrencyINR, "r")
	assert.ErrorIs(t, err, ErrNotConfigured)

	ok, err := g.Verify("o", "p", "s")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(9998), MinorUnits(decimal.RequireFromString("99.98")))
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("10")))
	assert.Equal(t, int64(13), MinorUnits(decimal.RequireFromString("0.125")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}

func TestGatewayError_Is(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := error(&GatewayError{Op: "open order", Err: cause})
	require.ErrorIs(t, err, ErrGatewayRequest)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "open order")
}
