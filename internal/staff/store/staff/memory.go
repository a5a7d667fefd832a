package staff

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
)

// InMemory stores staff accounts in memory for the demo environment.
type InMemory struct {
	mu    sync.RWMutex
	staff map[string]*models.Staff
}

// NewInMemory creates an in-memory staff store.
func NewInMemory() *InMemory {
	return &InMemory{
		staff: make(map[string]*models.Staff),
	}
}

func (s *InMemory) Create(_ context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := st.ID.String()
	if _, exists := s.staff[key]; exists {
		return fmt.Errorf("staff %s: %w", key, sentinel.ErrDuplicate)
	}
	if s.emailTaken(st.Email, st.ID) {
		return fmt.Errorf("staff email: %w", sentinel.ErrDuplicate)
	}
	clone := *st
	s.staff[key] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := st.ID.String()
	if _, exists := s.staff[key]; !exists {
		return sentinel.ErrNotFound
	}
	if s.emailTaken(st.Email, st.ID) {
		return fmt.Errorf("staff email: %w", sentinel.ErrDuplicate)
	}
	clone := *st
	s.staff[key] = &clone
	return nil
}

// emailTaken mirrors the uq_staff_email index: the email is the login
// identifier, unique across all tenants, compared case-insensitively.
// Caller holds the lock.
func (s *InMemory) emailTaken(email string, self id.StaffID) bool {
	lower := strings.ToLower(email)
	for _, existing := range s.staff {
		if existing.ID == self {
			continue
		}
		if strings.ToLower(existing.Email) == lower {
			return true
		}
	}
	return false
}

// FindByTenantAndID scopes the lookup to the owning tenant: a staff ID from
// another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[staffID.String()]
	if !ok || st.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *st
	return &clone, nil
}

// FindByEmail looks an account up for login. The search is global: email is
// unique across tenants, so no tenant scope applies.
func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lower := strings.ToLower(email)
	for _, st := range s.staff {
		if strings.ToLower(st.Email) == lower {
			clone := *st
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListByTenant returns a page of a tenant's staff matching the filter,
// oldest first, along with the total match count.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.StaffFilter) ([]*models.Staff, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matches := make([]*models.Staff, 0)
	for _, st := range s.staff {
		if st.TenantID != tenantID {
			continue
		}
		if filter.Role != "" && st.Role != filter.Role {
			continue
		}
		if !filter.BranchID.IsNil() && st.BranchID != filter.BranchID {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.Name), search) &&
			!strings.Contains(strings.ToLower(st.Email), search) {
			continue
		}
		clone := *st
		matches = append(matches, &clone)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := len(matches)
	if filter.Offset >= total {
		return []*models.Staff{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matches[filter.Offset:end], total, nil
}

func (s *InMemory) CountByTenant(_ context.Context, tenantID id.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, st := range s.staff {
		if st.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}
