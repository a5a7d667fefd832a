package category

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// InMemory stores categories in memory for the demo environment.
type InMemory struct {
	mu         sync.RWMutex
	categories map[string]*models.Category
}

// NewInMemory creates an in-memory category store.
func NewInMemory() *InMemory {
	return &InMemory{
		categories: make(map[string]*models.Category),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.ID.String()
	if _, exists := s.categories[key]; exists {
		return fmt.Errorf("category %s: %w", key, sentinel.ErrDuplicate)
	}
	if s.nameTaken(c.TenantID, c.Name, c.ID) {
		return fmt.Errorf("category name %q: %w", c.Name, sentinel.ErrDuplicate)
	}
	clone := *c
	s.categories[key] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.ID.String()
	if _, exists := s.categories[key]; !exists {
		return sentinel.ErrNotFound
	}
	if s.nameTaken(c.TenantID, c.Name, c.ID) {
		return fmt.Errorf("category name %q: %w", c.Name, sentinel.ErrDuplicate)
	}
	clone := *c
	s.categories[key] = &clone
	return nil
}

// nameTaken mirrors the uq_categories_tenant_name index: names are unique
// per tenant, compared case-insensitively. Caller holds the lock.
func (s *InMemory) nameTaken(tenantID id.TenantID, name string, self id.CategoryID) bool {
	lower := strings.ToLower(name)
	for _, existing := range s.categories {
		if existing.ID == self {
			continue
		}
		if existing.TenantID == tenantID && strings.ToLower(existing.Name) == lower {
			return true
		}
	}
	return false
}

// FindByTenantAndID scopes the lookup to the owning tenant: a category ID
// from another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID.String()]
	if !ok || c.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]*models.Category, 0)
	for _, c := range s.categories {
		if c.TenantID != tenantID {
			continue
		}
		clone := *c
		categories = append(categories, &clone)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}
