// Package adapters bridges the maintenance services to the other contexts
// they consume. Each adapter declares the narrow store slice it needs, so
// maintenance wiring does not depend on the other contexts' service
// packages.
package adapters

import (
	"context"

	catalogmodels "fieldpos/internal/catalog/models"
	"fieldpos/internal/maintenance/service"
	id "fieldpos/pkg/domain"
)

// productFinder is the slice of the catalog product store this adapter
// needs.
type productFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*catalogmodels.Product, error)
}

// ProductDirectory adapts the catalog product store to the maintenance
// service's contract-item contract.
type ProductDirectory struct {
	products productFinder
}

func NewProductDirectory(products productFinder) *ProductDirectory {
	return &ProductDirectory{products: products}
}

// ProductForContract returns the snapshot a contract item is written from.
func (d *ProductDirectory) ProductForContract(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*service.ProductRef, error) {
	product, err := d.products.FindByTenantAndID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return &service.ProductRef{
		ID:           product.ID,
		Name:         product.Name,
		Maintainable: product.Maintainable,
		Active:       product.IsActive(),
	}, nil
}
