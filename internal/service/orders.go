package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// ListOrders returns the user's order history, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, page, size int) ([]models.Order, error) {
	from, limit := util.Calculate(page, size)
	return s.Repo.ListOrders(ctx, userID, from, limit)
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrForbidden)
	}
	return order, nil
}

// DeleteOrder removes an order and its items. Admin only.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return err
	}
	if err := s.Repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return err
	}

	if s.Events != nil {
		ev := events.OrderEvent{Type: events.OrderDeleted, OrderID: order.ID, UserID: order.UserID, TotalAmount: order.TotalAmount, At: time.Now().UTC()}
		if err := s.Events.Publish(ctx, events.TopicOrder, events.Key(order.ID), ev); err != nil {
			logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicOrder, "type", ev.Type, "error", err)
		}
	}
	return nil
}
