package tenant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
)

// ErrNotFound is returned when a tenant is not found.
var ErrNotFound = sentinel.ErrNotFound

// InMemory stores tenants in memory for the demo environment.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[string]*models.Tenant
}

// NewInMemory creates an in-memory tenant store.
func NewInMemory() *InMemory {
	return &InMemory{
		tenants: make(map[string]*models.Tenant),
	}
}

func (s *InMemory) Create(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := t.ID.String()
	if _, exists := s.tenants[key]; exists {
		return fmt.Errorf("tenant %s: %w", key, sentinel.ErrDuplicate)
	}
	clone := *t
	s.tenants[key] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := t.ID.String()
	if _, exists := s.tenants[key]; !exists {
		return ErrNotFound
	}
	clone := *t
	s.tenants[key] = &clone
	return nil
}

// FindByID retrieves a tenant by its UUID. Returns a copy so callers can
// mutate freely before persisting through Update.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[tenantID.String()]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, ErrNotFound
}

// List returns a page of tenants matching the filter, newest first, along
// with the total match count.
func (s *InMemory) List(_ context.Context, filter models.TenantFilter) ([]*models.Tenant, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matches := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
			continue
		}
		clone := *t
		matches = append(matches, &clone)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := len(matches)
	if filter.Offset >= total {
		return []*models.Tenant{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matches[filter.Offset:end], total, nil
}
