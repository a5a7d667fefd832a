package branch

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

// InMemory stores branches in memory for the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	branches map[string]*models.Branch
}

// NewInMemory creates an in-memory branch store.
func NewInMemory() *InMemory {
	return &InMemory{
		branches: make(map[string]*models.Branch),
	}
}

func (s *InMemory) Create(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := b.ID.String()
	if _, exists := s.branches[key]; exists {
		return fmt.Errorf("branch %s: %w", key, sentinel.ErrDuplicate)
	}
	if s.nameTaken(b.TenantID, b.Name, b.ID) {
		return fmt.Errorf("branch name %q: %w", b.Name, sentinel.ErrDuplicate)
	}
	clone := *b
	s.branches[key] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := b.ID.String()
	if _, exists := s.branches[key]; !exists {
		return sentinel.ErrNotFound
	}
	if s.nameTaken(b.TenantID, b.Name, b.ID) {
		return fmt.Errorf("branch name %q: %w", b.Name, sentinel.ErrDuplicate)
	}
	clone := *b
	s.branches[key] = &clone
	return nil
}

// nameTaken mirrors the uq_branches_tenant_name index: names are unique per
// tenant, compared case-insensitively. Caller holds the lock.
func (s *InMemory) nameTaken(tenantID id.TenantID, name string, self id.BranchID) bool {
	lower := strings.ToLower(name)
	for _, existing := range s.branches {
		if existing.ID == self {
			continue
		}
		if existing.TenantID == tenantID && strings.ToLower(existing.Name) == lower {
			return true
		}
	}
	return false
}

// FindByTenantAndID scopes the lookup to the owning tenant: a branch ID from
// another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID.String()]
	if !ok || b.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	branches := make([]*models.Branch, 0)
	for _, b := range s.branches {
		if b.TenantID != tenantID {
			continue
		}
		clone := *b
		branches = append(branches, &clone)
	}
	sort.Slice(branches, func(i, j int) bool {
		if !branches[i].CreatedAt.Equal(branches[j].CreatedAt) {
			return branches[i].CreatedAt.Before(branches[j].CreatedAt)
		}
		return branches[i].ID.String() < branches[j].ID.String()
	})
	return branches, nil
}

func (s *InMemory) CountByTenant(_ context.Context, tenantID id.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, b := range s.branches {
		if b.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}
