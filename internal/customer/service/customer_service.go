// Package service implements customer operations scoped to a tenant.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type CustomerService struct {
	customers CustomerStore
	logger    *slog.Logger
	tx        StoreTx
}

func NewCustomerService(customers CustomerStore, opts ...Option) *CustomerService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = newInMemoryStoreTx()
	}
	return &CustomerService{
		customers: customers,
		logger:    cfg.logger,
		tx:        cfg.tx,
	}
}

// CreateCustomer registers a customer for the tenant. The phone number,
// when given, must be unique within the tenant.
func (s *CustomerService) CreateCustomer(ctx context.Context, cmd *CreateCustomerCommand) (*models.Customer, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	customer, err := models.NewCustomer(id.CustomerID(uuid.New()), cmd.TenantID, models.ContactDetails{
		Name:    cmd.Name,
		Phone:   cmd.Phone,
		Email:   cmd.Email,
		Address: cmd.Address,
	}, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "phone already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create customer")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "customer created",
			"customer_id", customer.ID,
			"tenant_id", customer.TenantID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return customer, nil
}

// GetCustomer returns one customer of the tenant. A customer of another
// tenant reads as missing.
func (s *CustomerService) GetCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireCustomerID(customerID); err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByTenantAndID(ctx, tenantID, customerID)
	if err != nil {
		return nil, wrapCustomerErr(err)
	}
	return customer, nil
}

// ListCustomers pages through the tenant's customers. The search term
// matches name or phone substrings, which is how the register finds a
// repeat customer from a phone number.
func (s *CustomerService) ListCustomers(ctx context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	customers, total, err := s.customers.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list customers")
	}
	return customers, total, nil
}

// UpdateCustomer applies a partial update to the contact details.
func (s *CustomerService) UpdateCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID, cmd *UpdateCustomerCommand) (*models.Customer, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireCustomerID(customerID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var customer *models.Customer
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.customers.FindByTenantAndID(txCtx, tenantID, customerID)
		if err != nil {
			return wrapCustomerErr(err)
		}
		if cmd.IsEmpty() {
			customer = c
			return nil
		}

		details := models.ContactDetails{
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.Email,
			Address: c.Address,
		}
		if cmd.Name != nil {
			details.Name = *cmd.Name
		}
		if cmd.Phone != nil {
			details.Phone = *cmd.Phone
		}
		if cmd.Email != nil {
			details.Email = *cmd.Email
		}
		if cmd.Address != nil {
			details.Address = *cmd.Address
		}

		if err := c.UpdateContact(details, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.customers.Update(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "phone already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update customer")
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}
