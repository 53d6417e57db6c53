package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  uint            `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.Repo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items)), Total: models.CartTotal(items)}
	for _, it := range items {
		line := CartLine{ProductID: it.ProductID, Quantity: it.Quantity, Subtotal: it.Subtotal()}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.ImageURL = it.Product.ImageURL
			line.Price = it.Product.Price
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}

	s.publish(ctx, events.CartEvent{Type: events.CartItemAdded, UserID: userID, ProductID: productID, Quantity: quantity})
	return &item, nil
}

// UpdateQuantity sets the line's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, bool, error) {
	item, deleted, err := s.Repo.SetCartQuantity(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("cart item %d: %w", productID, ErrNotFound)
		}
		return nil, false, err
	}

	ev := events.CartEvent{Type: events.CartItemUpdated, UserID: userID, ProductID: productID}
	if deleted {
		ev.Type = events.CartItemRemoved
	} else {
		ev.Quantity = item.Quantity
	}
	s.publish(ctx, ev)
	return item, deleted, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item %d: %w", productID, ErrNotFound)
		}
		return err
	}
	s.publish(ctx, events.CartEvent{Type: events.CartItemRemoved, UserID: userID, ProductID: productID})
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, events.CartEvent{Type: events.CartCleared, UserID: userID})
	return nil
}

func (s *CartService) publish(ctx context.Context, ev events.CartEvent) {
	if s.Events == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := s.Events.Publish(ctx, events.TopicCart, events.Key(ev.UserID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicCart, "type", ev.Type, "error", err)
	}
}
