package checkout

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// Store is the slice of the order ledger and cart store checkout needs.
type Store interface {
	CartLines(ctx context.Context, userID uint) ([]models.CartItem, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	SetRazorpayOrderID(ctx context.Context, orderID uint, remoteID string) error
	OrderByID(ctx context.Context, id uint) (*models.Order, error)
	OrderByRazorpayID(ctx context.Context, remoteID string) (*models.Order, error)
	MarkPaid(ctx context.Context, order *models.Order, upd repo.PaymentUpdate) error

	// InTx runs fn against a Store bound to one transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	*repo.GormRepo
}

func NewStore(r *repo.GormRepo) Store {
	return gormStore{GormRepo: r}
}

func (s gormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.Transaction(ctx, func(tx *repo.GormRepo) error {
		return fn(gormStore{GormRepo: tx})
	})
}
