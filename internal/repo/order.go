package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CreateOrder inserts the order and its items.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) SetRazorpayOrderID(ctx context.Context, orderID uint, remoteID string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("razorpay_order_id", remoteID).Error
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) OrderByRazorpayID(ctx context.Context, remoteID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("razorpay_order_id = ?", remoteID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's orders, most recent first.
func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

type PaymentUpdate struct {
	Method    models.PaymentMethod
	PaymentID *string
}

// MarkPaid moves the order to processing/completed and empties the owner's
// cart in the same transaction.
func (r *GormRepo) MarkPaid(ctx context.Context, order *models.Order, upd PaymentUpdate) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{
			"status":         models.OrderStatusProcessing,
			"payment_status": models.PaymentStatusCompleted,
			"payment_method": upd.Method,
		}
		if upd.PaymentID != nil {
			fields["razorpay_payment_id"] = *upd.PaymentID
		}
		res := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order.Status = models.OrderStatusProcessing
		order.PaymentStatus = models.PaymentStatusCompleted
		order.PaymentMethod = upd.Method
		if upd.PaymentID != nil {
			order.RazorpayPaymentID = upd.PaymentID
		}
		return nil
	})
}

// DeleteOrder removes the order's items and then the order in one transaction.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
