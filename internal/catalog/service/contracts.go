package service

import (
	"context"
	"errors"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Store interfaces define persistence contracts.

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Category, error)
}

// ProductStore persists products. AdjustStock applies the delta atomically
// and reports a move below zero as sentinel.ErrInsufficientStock, so two
// concurrent sales cannot both take the last unit.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error)
	FindByCode(ctx context.Context, tenantID id.TenantID, code string) (*models.Product, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ProductFilter) ([]*models.Product, int, error)
	AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, delta int) (*models.Product, error)
}

// ID validation helpers reduce repetition in service methods.

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireCategoryID(categoryID id.CategoryID) error {
	if categoryID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "category ID required")
	}
	return nil
}

func requireProductID(productID id.ProductID) error {
	if productID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "product ID required")
	}
	return nil
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapCategoryErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "category not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "category lookup failed")
}

func wrapProductErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "product lookup failed")
}
