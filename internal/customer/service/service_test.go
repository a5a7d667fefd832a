package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// In-package test doubles. The real memory store lives in store/customer;
// tests here use minimal fakes so failures point at the service, not the
// store.

type fakeCustomerStore struct {
	mu        sync.Mutex
	customers map[string]*models.Customer

	createErr   error
	updateErr   error
	updateCount int
	lastFilter  models.CustomerFilter
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]*models.Customer)}
}

func (s *fakeCustomerStore) Create(_ context.Context, c *models.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.customers[c.ID.String()] = &clone
	return nil
}

func (s *fakeCustomerStore) Update(_ context.Context, c *models.Customer) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.ID.String()]; !ok {
		return sentinel.ErrNotFound
	}
	s.updateCount++
	clone := *c
	s.customers[c.ID.String()] = &clone
	return nil
}

func (s *fakeCustomerStore) FindByTenantAndID(_ context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID.String()]
	if !ok || c.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *fakeCustomerStore) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	var out []*models.Customer
	for _, c := range s.customers {
		if c.TenantID != tenantID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func validCustomerCommand(tenantID id.TenantID) *CreateCustomerCommand {
	return &CreateCustomerCommand{
		TenantID: tenantID,
		Name:     "Amal Haddad",
		Phone:    "+96170123456",
		Email:    "amal@example.com",
		Address:  "Hamra Street, Beirut",
	}
}

func TestCreateCustomer(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithNow(context.Background(), now)

	customer, err := svc.CreateCustomer(ctx, validCustomerCommand(tenantID))
	require.NoError(t, err)
	assert.Equal(t, "Amal Haddad", customer.Name)
	assert.Equal(t, "+96170123456", customer.Phone)
	assert.Equal(t, now, customer.CreatedAt)
	assert.False(t, customer.ID.IsNil())
}

func TestCreateCustomer_ValidationFailures(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())
	tenantID := id.TenantID(uuid.New())

	cases := []struct {
		name   string
		mutate func(*CreateCustomerCommand)
	}{
		{"missing tenant", func(c *CreateCustomerCommand) { c.TenantID = id.TenantID(uuid.Nil) }},
		{"missing name", func(c *CreateCustomerCommand) { c.Name = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := validCustomerCommand(tenantID)
			tc.mutate(cmd)
			_, err := svc.CreateCustomer(context.Background(), cmd)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "expected validation error, got %v", err)
		})
	}
}

func TestCreateCustomer_DuplicatePhoneConflicts(t *testing.T) {
	customers := newFakeCustomerStore()
	customers.createErr = sentinel.ErrDuplicate
	svc := NewCustomerService(customers)

	_, err := svc.CreateCustomer(context.Background(), validCustomerCommand(id.TenantID(uuid.New())))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "expected conflict, got %v", err)
}

func TestGetCustomer_TenantScoped(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	created, err := svc.CreateCustomer(context.Background(), validCustomerCommand(tenantID))
	require.NoError(t, err)

	found, err := svc.GetCustomer(context.Background(), tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// A foreign tenant reads the same ID as missing.
	_, err = svc.GetCustomer(context.Background(), id.TenantID(uuid.New()), created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "expected not found, got %v", err)
}

func TestListCustomers_DefaultsAndCapsLimit(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	_, _, err := svc.ListCustomers(context.Background(), tenantID, models.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, customers.lastFilter.Limit)

	_, _, err = svc.ListCustomers(context.Background(), tenantID, models.CustomerFilter{Limit: 10_000, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, 200, customers.lastFilter.Limit)
	assert.Zero(t, customers.lastFilter.Offset)
}

func TestUpdateCustomer(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	created, err := svc.CreateCustomer(context.Background(), validCustomerCommand(tenantID))
	require.NoError(t, err)

	address := "Verdun, Beirut"
	updated, err := svc.UpdateCustomer(context.Background(), tenantID, created.ID, &UpdateCustomerCommand{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "Verdun, Beirut", updated.Address)
	assert.Equal(t, created.Name, updated.Name, "untouched fields survive")
	assert.Equal(t, created.Phone, updated.Phone)
}

func TestUpdateCustomer_EmptyCommandIsANoop(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	created, err := svc.CreateCustomer(context.Background(), validCustomerCommand(tenantID))
	require.NoError(t, err)

	_, err = svc.UpdateCustomer(context.Background(), tenantID, created.ID, &UpdateCustomerCommand{})
	require.NoError(t, err)
	assert.Zero(t, customers.updateCount, "no write for an empty update")
}

func TestUpdateCustomer_ClearsContactFields(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	created, err := svc.CreateCustomer(context.Background(), validCustomerCommand(tenantID))
	require.NoError(t, err)

	empty := ""
	updated, err := svc.UpdateCustomer(context.Background(), tenantID, created.ID, &UpdateCustomerCommand{
		Phone: &empty,
		Email: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Phone)
	assert.Empty(t, updated.Email)
	assert.Equal(t, created.Address, updated.Address)
}

func TestUpdateCustomer_NameCannotClear(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())

	empty := ""
	_, err := svc.UpdateCustomer(context.Background(), id.TenantID(uuid.New()), id.CustomerID(uuid.New()), &UpdateCustomerCommand{Name: &empty})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "expected validation error, got %v", err)
}

func TestUpdateCustomer_DuplicatePhoneConflicts(t *testing.T) {
	customers := newFakeCustomerStore()
	svc := NewCustomerService(customers)
	tenantID := id.TenantID(uuid.New())

	created, err := svc.CreateCustomer(context.Background(), validCustomerCommand(tenantID))
	require.NoError(t, err)

	customers.updateErr = sentinel.ErrDuplicate
	phone := "+96171555444"
	_, err = svc.UpdateCustomer(context.Background(), tenantID, created.ID, &UpdateCustomerCommand{Phone: &phone})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "expected conflict, got %v", err)
}
