package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
)

// Indexer is the full-text search backend kept in sync with the catalog.
type Indexer interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search Indexer
	Events events.Publisher
}

type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
}

func (s *CatalogService) List(ctx context.Context, category string, page, size int) (*ProductPage, error) {
	from, limit := util.Calculate(page, size)
	items, total, err := s.Repo.ListProducts(ctx, strings.TrimSpace(category), from, limit)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: from/limit + 1, Size: limit}, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}

	p := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    in.ImageURL,
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, &p)
	s.publish(ctx, events.ProductCreated, p.ID)
	return &p, nil
}

func (s *CatalogService) Patch(ctx context.Context, id uint, in ProductPatch) (*models.Product, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
		}
		fields["price"] = *in.Price
	}
	if in.Stock != nil {
		fields["stock"] = *in.Stock
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}

	p, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.syncIndex(ctx, p)
	s.publish(ctx, events.ProductUpdated, p.ID)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_sync_error", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, events.ProductDeleted, id)
	return nil
}

// SearchProducts uses the search cluster when configured and falls back to
// SQL matching when it is absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) (*ProductPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	from, limit := util.Calculate(page, size)
	result := &ProductPage{Page: from/limit + 1, Size: limit}

	if s.Search != nil {
		total, items, err := s.Search.Search(ctx, query, from, limit)
		if err == nil {
			result.Items, result.Total = items, total
			return result, nil
		}
		logging.FromContext(ctx).Warn("search_error", "reason", "falling back to sql", "error", err)
	}

	items, total, err := s.Repo.SearchProducts(ctx, query, from, limit)
	if err != nil {
		return nil, err
	}
	result.Items, result.Total = items, total
	return result, nil
}

func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("search_sync_error", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, typ string, id uint) {
	if s.Events == nil {
		return
	}
	ev := events.ProductEvent{Type: typ, ProductID: id, At: time.Now().UTC()}
	if err := s.Events.Publish(ctx, events.TopicProduct, events.Key(id), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicProduct, "type", typ, "error", err)
	}
}
