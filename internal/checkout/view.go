package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID uint
}

type Line struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  uint            `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// GatewayParams is what a client-side payment widget needs. It is zero when
// no remote order was opened.
type GatewayParams struct {
	Enabled       bool   `json:"enabled"`
	KeyID         string `json:"key_id,omitempty"`
	RemoteOrderID string `json:"razorpay_order_id,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

type View struct {
	Order   *models.Order   `json:"order"`
	Items   []Line          `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Gateway GatewayParams   `json:"gateway"`
	Warning string          `json:"warning,omitempty"`
}

// PaymentResult is the client-reported outcome of a gateway payment.
type PaymentResult struct {
	RemoteOrderID   string `json:"razorpay_order_id"`
	RemotePaymentID string `json:"razorpay_payment_id"`
	Signature       string `json:"razorpay_signature"`
}

func toLines(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		line := Line{ProductID: it.ProductID, Quantity: it.Quantity, Subtotal: it.Subtotal()}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.Price = it.Product.Price
		}
		lines = append(lines, line)
	}
	return lines
}
