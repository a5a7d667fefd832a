package adapters

import (
	"context"

	"fieldpos/internal/maintenance/service"
	salemodels "fieldpos/internal/sale/models"
	id "fieldpos/pkg/domain"
)

// saleFinder is the slice of the sale store this adapter needs.
type saleFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*salemodels.Sale, error)
}

// SaleDirectory adapts the sale store to the maintenance service's
// sale-link check, so a contract can only reference a register sale of the
// same tenant and customer.
type SaleDirectory struct {
	sales saleFinder
}

func NewSaleDirectory(sales saleFinder) *SaleDirectory {
	return &SaleDirectory{sales: sales}
}

// SaleForContract resolves the sale a contract claims to be sold on.
// Missing sales surface as sentinel.ErrNotFound from the store.
func (d *SaleDirectory) SaleForContract(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*service.SaleRef, error) {
	sale, err := d.sales.FindByTenantAndID(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	return &service.SaleRef{
		ID:         sale.ID,
		CustomerID: sale.CustomerID,
	}, nil
}
