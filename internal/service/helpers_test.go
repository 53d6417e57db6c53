package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/testdb"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testdb.New(t))
}

func seedUser(t *testing.T, r *repo.GormRepo, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: decimal.RequireFromString(price), Stock: 10}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}
