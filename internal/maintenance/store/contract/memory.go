// Package contract provides maintenance contract persistence.
package contract

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// InMemory stores contracts in memory for the demo environment. Visits are
// owned by the visit store; contracts here carry only their items.
type InMemory struct {
	mu        sync.RWMutex
	contracts map[string]*models.Contract
}

// NewInMemory creates an in-memory contract store.
func NewInMemory() *InMemory {
	return &InMemory{
		contracts: make(map[string]*models.Contract),
	}
}

func (s *InMemory) Create(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contract.ID.String()
	if _, exists := s.contracts[key]; exists {
		return fmt.Errorf("contract %s: %w", key, sentinel.ErrDuplicate)
	}
	// Mirrors the uq_contracts_tenant_no index.
	for _, existing := range s.contracts {
		if existing.TenantID == contract.TenantID && existing.ContractNo == contract.ContractNo {
			return fmt.Errorf("contract number %q: %w", contract.ContractNo, sentinel.ErrDuplicate)
		}
	}
	s.contracts[key] = cloneContract(contract)
	return nil
}

// Update persists only the mutable columns, matching the SQL store's
// column-restricted UPDATE. Items are immutable once written.
func (s *InMemory) Update(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.contracts[contract.ID.String()]
	if !exists {
		return sentinel.ErrNotFound
	}
	stored.StartDate = contract.StartDate
	stored.EndDate = contract.EndDate
	stored.TotalVisits = contract.TotalVisits
	stored.Status = contract.Status
	stored.RenewalCount = contract.RenewalCount
	stored.TechnicianID = contract.TechnicianID
	stored.Notes = contract.Notes
	stored.UpdatedAt = contract.UpdatedAt
	return nil
}

// FindByTenantAndID loads the contract with its items. A contract of
// another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[contractID.String()]
	if !ok || contract.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	return cloneContract(contract), nil
}

// ListByTenant returns contract summaries without items, newest first.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.ContractFilter) ([]*models.Contract, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Contract, 0)
	for _, contract := range s.contracts {
		if contract.TenantID != tenantID || !matchesFilter(contract, filter) {
			continue
		}
		summary := cloneContract(contract)
		summary.Items = nil
		matches = append(matches, summary)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := len(matches)
	if filter.Offset >= total {
		return []*models.Contract{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matches[filter.Offset:end], total, nil
}

// ListExpired returns active contracts across every tenant whose end date
// falls before the cutoff, oldest first. Items are not loaded.
func (s *InMemory) ListExpired(_ context.Context, before time.Time, limit int) ([]*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Contract, 0)
	for _, contract := range s.contracts {
		if contract.Status != models.ContractStatusActive || !contract.EndDate.Before(before) {
			continue
		}
		summary := cloneContract(contract)
		summary.Items = nil
		matches = append(matches, summary)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].EndDate.Equal(matches[j].EndDate) {
			return matches[i].EndDate.Before(matches[j].EndDate)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesFilter(contract *models.Contract, filter models.ContractFilter) bool {
	if filter.Status != "" && contract.Status != filter.Status {
		return false
	}
	if !filter.CustomerID.IsNil() && contract.CustomerID != filter.CustomerID {
		return false
	}
	if !filter.BranchID.IsNil() && contract.BranchID != filter.BranchID {
		return false
	}
	if !filter.ExpiringBefore.IsZero() {
		// Mirrors the partial idx_contracts_end_date index: the
		// expiring-before view only covers active contracts.
		if contract.Status != models.ContractStatusActive || !contract.EndDate.Before(filter.ExpiringBefore) {
			return false
		}
	}
	return true
}

func cloneContract(contract *models.Contract) *models.Contract {
	clone := *contract
	clone.Items = make([]*models.ContractItem, len(contract.Items))
	for i, item := range contract.Items {
		itemClone := *item
		clone.Items[i] = &itemClone
	}
	// Visits are composed by the service from the visit store.
	clone.Visits = nil
	return &clone
}
