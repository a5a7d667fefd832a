package service

import (
	"context"
	"errors"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// CustomerStore persists customers. There is no delete: sales and contracts
// reference customer rows for the life of the tenant.
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error)
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireCustomerID(customerID id.CustomerID) error {
	if customerID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "customer ID required")
	}
	return nil
}

func wrapCustomerErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "customer not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "customer lookup failed")
}
