package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
)

const defaultGatewayTimeout = 10 * time.Second

type Service struct {
	store          Store
	gateway        payment.Gateway
	events         events.Publisher
	gatewayTimeout time.Duration
}

func New(store Store, gateway payment.Gateway, pub events.Publisher) *Service {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:          store,
		gateway:        gateway,
		events:         pub,
		gatewayTimeout: defaultGatewayTimeout,
	}
}

func (s *Service) GatewayEnabled() bool { return s.gateway.Enabled() }

// Begin prices the caller's live cart.
func (s *Service) Begin(ctx context.Context, id Identity) (*Summary, error) {
	items, err := s.store.CartLines(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: load cart: %v", ErrPersistence, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return &Summary{Items: toLines(items), Total: models.CartTotal(items)}, nil
}

// Submit turns the caller's cart into a pending order. The order, its items
// and the remote order id commit together; a failed gateway call only adds a
// warning. The cart itself is left in place until payment is finalized.
func (s *Service) Submit(ctx context.Context, id Identity, shippingAddress string) (*View, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.submit", "user_id", id.UserID)

	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, fmt.Errorf("shipping address is required: %w", ErrValidation)
	}

	var view *View
	err := s.store.InTx(ctx, func(tx Store) error {
		items, err := tx.CartLines(ctx, id.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		total := models.CartTotal(items)
		order := &models.Order{
			UserID:          id.UserID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   models.PaymentMethodMock,
			ShippingAddress: shippingAddress,
			Items:           make([]models.OrderItem, 0, len(items)),
		}
		for _, it := range items {
			if it.Product == nil {
				return fmt.Errorf("cart line for product %d has no product", it.ProductID)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		view = &View{Order: order, Items: toLines(items), Total: total}

		if !s.gateway.Enabled() {
			return nil
		}
		// The remote call holds this transaction and its pool connection for up
		// to gatewayTimeout. If the commit below fails, the remote order stays
		// open at the gateway with no local order pointing at it.
		amount := payment.MinorUnits(total)
		remoteID, err := s.openRemoteOrder(ctx, amount, order.ID)
		if err != nil {
			l.Warn("checkout_gateway_error", "order_id", order.ID, "reason", "falling back to mock payment", "error", err)
			view.Warning = "Online payment is unavailable right now; you can still complete the order with the mock payment."
			return nil
		}
		if err := tx.SetRazorpayOrderID(ctx, order.ID, remoteID); err != nil {
			return err
		}
		order.RazorpayOrderID = &remoteID
		view.Gateway = GatewayParams{
			Enabled:       true,
			KeyID:         s.gateway.KeyID(),
			RemoteOrderID: remoteID,
			Amount:        amount,
			Currency:      payment.CurrencyINR,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		l.Error("checkout_error", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ctx, events.OrderCreated, view.Order)
	l.Info("order created", "order_id", view.Order.ID, "total", view.Total.StringFixed(2), "gateway", view.Gateway.Enabled)
	return view, nil
}

func (s *Service) openRemoteOrder(ctx context.Context, amount int64, orderID uint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	remoteID, err := s.gateway.OpenOrder(ctx, amount, payment.CurrencyINR, Receipt(orderID))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	return remoteID, nil
}

func Receipt(orderID uint) string {
	return fmt.Sprintf("order_rcpt_%d", orderID)
}

// Reconcile verifies a client-reported gateway payment and finalizes the
// matching order. Nothing is written unless the signature verifies.
func (s *Service) Reconcile(ctx context.Context, id Identity, res PaymentResult) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.reconcile", "user_id", id.UserID)

	res.RemoteOrderID = strings.TrimSpace(res.RemoteOrderID)
	res.RemotePaymentID = strings.TrimSpace(res.RemotePaymentID)
	res.Signature = strings.TrimSpace(res.Signature)
	if res.RemoteOrderID == "" || res.RemotePaymentID == "" || res.Signature == "" {
		return nil, ErrMissingFields
	}

	order, err := s.store.OrderByRazorpayID(ctx, res.RemoteOrderID)
	if err != nil {
		return nil, lookupError(err)
	}
	if order.UserID != id.UserID {
		l.Warn("reconcile_error", "status", 403, "order_id", order.ID, "reason", "owner mismatch")
		return nil, ErrAccessDenied
	}

	ok, err := s.gateway.Verify(res.RemoteOrderID, res.RemotePaymentID, res.Signature)
	if err != nil {
		l.Warn("reconcile_error", "status", 400, "order_id", order.ID, "reason", "verification failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !ok {
		l.Warn("reconcile_error", "status", 400, "order_id", order.ID, "reason", "signature mismatch")
		return nil, ErrInvalidSignature
	}

	paymentID := res.RemotePaymentID
	if err := s.store.MarkPaid(ctx, order, repo.PaymentUpdate{Method: models.PaymentMethodRazorpay, PaymentID: &paymentID}); err != nil {
		l.Error("reconcile_error", "status", 500, "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ctx, events.OrderPaid, order)
	l.Info("order paid", "order_id", order.ID, "payment_method", order.PaymentMethod)
	return order, nil
}

// MockConfirm finalizes an order without any external verification.
func (s *Service) MockConfirm(ctx context.Context, id Identity, orderID uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.mock_confirm", "user_id", id.UserID)

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, lookupError(err)
	}
	if order.UserID != id.UserID {
		l.Warn("mock_confirm_error", "status", 403, "order_id", orderID, "reason", "owner mismatch")
		return nil, ErrAccessDenied
	}

	if err := s.store.MarkPaid(ctx, order, repo.PaymentUpdate{Method: models.PaymentMethodMock}); err != nil {
		l.Error("mock_confirm_error", "status", 500, "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ctx, events.OrderPaid, order)
	l.Info("order paid", "order_id", order.ID, "payment_method", order.PaymentMethod)
	return order, nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func (s *Service) publish(ctx context.Context, typ string, order *models.Order) {
	ev := events.OrderEvent{
		Type:          typ,
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: string(order.PaymentMethod),
		At:            time.Now().UTC(),
	}
	if order.RazorpayOrderID != nil {
		ev.RazorpayOrderID = *order.RazorpayOrderID
	}
	if err := s.events.Publish(ctx, events.TopicOrder, events.Key(order.ID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicOrder, "type", typ, "error", err)
	}
}
