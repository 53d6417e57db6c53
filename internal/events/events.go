package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicUser    = "user_events"
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicProduct = "product_events"
)

const (
	UserRegistered = "user_registered"
	UserLoggedIn   = "user_logged_in"

	CartItemAdded   = "cart_item_added"
	CartItemUpdated = "cart_item_updated"
	CartItemRemoved = "cart_item_removed"
	CartCleared     = "cart_cleared"

	OrderCreated = "order_created"
	OrderPaid    = "order_paid"
	OrderDeleted = "order_deleted"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

type UserEvent struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id,omitempty"`
	Quantity  uint      `json:"quantity,omitempty"`
	At        time.Time `json:"at"`
}

type OrderEvent struct {
	Type            string          `json:"type"`
	OrderID         uint            `json:"order_id"`
	UserID          uint            `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	RazorpayOrderID string          `json:"razorpay_order_id,omitempty"`
	At              time.Time       `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID uint      `json:"product_id"`
	At        time.Time `json:"at"`
}

func Key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
