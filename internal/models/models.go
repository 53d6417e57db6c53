package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type PaymentMethod string

const (
	PaymentMethodMock     PaymentMethod = "mock"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"      json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"not null;default:user"     json:"role"`
	CreatedAt    time.Time `                                 json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	Token     string `gorm:"uniqueIndex;not null"  json:"-"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"default:false"         json:"revoked"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string          `gorm:"not null"                   json:"name"`
	Description string          `gorm:"not null"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       uint            `gorm:"not null;default:0"         json:"stock"`
	Category    string          `gorm:"index"                      json:"category"`
	ImageURL    string          `                                  json:"image_url"`
	CreatedAt   time.Time       `gorm:"index"                      json:"created_at"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey"                                json:"id"`
	UserID    uint     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  uint     `gorm:"not null;default:1;check:quantity>0"       json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is price × quantity at the product's current price. The product
// must be preloaded.
func (c CartItem) Subtotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Order is created once per checkout submission. TotalAmount is the cart total
// at that moment and is never recomputed.
type Order struct {
	ID                uint            `gorm:"primaryKey"                          json:"id"`
	UserID            uint            `gorm:"index;not null"                      json:"user_id"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"         json:"total_amount"`
	Status            OrderStatus     `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(32);not null;default:pending" json:"payment_status"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(32);not null;default:mock"    json:"payment_method"`
	ShippingAddress   string          `gorm:"type:text;not null"                  json:"shipping_address"`
	RazorpayOrderID   *string         `gorm:"index"                               json:"razorpay_order_id"`
	RazorpayPaymentID *string         `                                           json:"razorpay_payment_id"`
	CreatedAt         time.Time       `gorm:"index"                               json:"created_at"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem keeps the unit price the product had at checkout time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &RefreshToken{}, &Product{}, &CartItem{}, &Order{}, &OrderItem{}}
}
