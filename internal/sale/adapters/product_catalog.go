// Package adapters bridges the sale service to the other contexts it
// consumes. Each adapter declares the narrow store slice it needs, so sale
// wiring does not depend on the other contexts' service packages.
package adapters

import (
	"context"

	catalogmodels "fieldpos/internal/catalog/models"
	"fieldpos/internal/sale/service"
	id "fieldpos/pkg/domain"
)

// productStore is the slice of the catalog product store the register needs.
type productStore interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*catalogmodels.Product, error)
	AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, delta int) (*catalogmodels.Product, error)
}

// ProductCatalog adapts the catalog product store to the sale service's
// pricing and stock contract.
type ProductCatalog struct {
	products productStore
}

func NewProductCatalog(products productStore) *ProductCatalog {
	return &ProductCatalog{products: products}
}

// ProductForSale returns the pricing snapshot for one product of the tenant.
func (a *ProductCatalog) ProductForSale(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*service.ProductInfo, error) {
	product, err := a.products.FindByTenantAndID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return &service.ProductInfo{
		ID:     product.ID,
		Name:   product.Name,
		Price:  product.Price,
		Active: product.IsActive(),
	}, nil
}

// AdjustStock moves stock atomically; the store reports a move below zero as
// sentinel.ErrInsufficientStock.
func (a *ProductCatalog) AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, delta int) error {
	_, err := a.products.AdjustStock(ctx, tenantID, productID, delta)
	return err
}
