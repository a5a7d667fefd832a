package adapters

import (
	"context"
	"errors"

	customermodels "fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// customerFinder is the slice of the customer store this adapter needs.
type customerFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*customermodels.Customer, error)
}

// CustomerDirectory adapts the customer store to the maintenance service's
// customer-membership check.
type CustomerDirectory struct {
	customers customerFinder
}

func NewCustomerDirectory(customers customerFinder) *CustomerDirectory {
	return &CustomerDirectory{customers: customers}
}

// CustomerExists reports whether the customer exists under the tenant. Only
// infrastructure failures surface as errors.
func (d *CustomerDirectory) CustomerExists(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (bool, error) {
	_, err := d.customers.FindByTenantAndID(ctx, tenantID, customerID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
