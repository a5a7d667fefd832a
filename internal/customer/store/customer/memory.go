// Package customer provides customer persistence.
package customer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// InMemory stores customers in memory for the demo environment.
type InMemory struct {
	mu        sync.RWMutex
	customers map[string]*models.Customer
}

// NewInMemory creates an in-memory customer store.
func NewInMemory() *InMemory {
	return &InMemory{
		customers: make(map[string]*models.Customer),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.ID.String()
	if _, exists := s.customers[key]; exists {
		return fmt.Errorf("customer %s: %w", key, sentinel.ErrDuplicate)
	}
	if s.phoneTaken(c.TenantID, c.Phone, c.ID) {
		return fmt.Errorf("customer phone %q: %w", c.Phone, sentinel.ErrDuplicate)
	}
	clone := *c
	s.customers[key] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.ID.String()
	if _, exists := s.customers[key]; !exists {
		return sentinel.ErrNotFound
	}
	if s.phoneTaken(c.TenantID, c.Phone, c.ID) {
		return fmt.Errorf("customer phone %q: %w", c.Phone, sentinel.ErrDuplicate)
	}
	clone := *c
	s.customers[key] = &clone
	return nil
}

// phoneTaken mirrors the uq_customers_tenant_phone index: phones are unique
// per tenant, and an empty phone never collides. Caller holds the lock.
func (s *InMemory) phoneTaken(tenantID id.TenantID, phone string, self id.CustomerID) bool {
	if phone == "" {
		return false
	}
	for _, existing := range s.customers {
		if existing.ID == self {
			continue
		}
		if existing.TenantID == tenantID && existing.Phone == phone {
			return true
		}
	}
	return false
}

// FindByTenantAndID scopes the lookup to the owning tenant: a customer ID
// from another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID.String()]
	if !ok || c.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Customer, 0)
	search := strings.ToLower(filter.Search)
	for _, c := range s.customers {
		if c.TenantID != tenantID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(c.Phone, filter.Search) {
			continue
		}
		clone := *c
		matches = append(matches, &clone)
	}

	sort.Slice(matches, func(i, j int) bool {
		ni, nj := strings.ToLower(matches[i].Name), strings.ToLower(matches[j].Name)
		if ni != nj {
			return ni < nj
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := len(matches)
	if filter.Offset >= total {
		return []*models.Customer{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matches[filter.Offset:end], total, nil
}
