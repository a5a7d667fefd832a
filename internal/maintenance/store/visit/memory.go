// Package visit provides maintenance visit persistence.
package visit

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

// InMemory stores visits in memory for the demo environment.
type InMemory struct {
	mu     sync.RWMutex
	visits map[string]*models.Visit
}

// NewInMemory creates an in-memory visit store.
func NewInMemory() *InMemory {
	return &InMemory{
		visits: make(map[string]*models.Visit),
	}
}

// CreateBatch writes a schedule of visits. The whole batch is validated
// against the uq_visits_contract_sequence mirror before anything lands, so
// a rejected batch leaves the store untouched.
func (s *InMemory) CreateBatch(_ context.Context, visits []*models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(visits))
	for _, visit := range visits {
		key := visit.ID.String()
		if _, exists := s.visits[key]; exists {
			return fmt.Errorf("visit %s: %w", key, sentinel.ErrDuplicate)
		}
		seqKey := fmt.Sprintf("%s/%d", visit.ContractID, visit.Sequence)
		if seen[seqKey] {
			return fmt.Errorf("visit sequence %d: %w", visit.Sequence, sentinel.ErrDuplicate)
		}
		seen[seqKey] = true
		for _, existing := range s.visits {
			if existing.ContractID == visit.ContractID && existing.Sequence == visit.Sequence {
				return fmt.Errorf("visit sequence %d: %w", visit.Sequence, sentinel.ErrDuplicate)
			}
		}
	}
	for _, visit := range visits {
		s.visits[visit.ID.String()] = cloneVisit(visit)
	}
	return nil
}

// Update persists only the mutable columns, matching the SQL store's
// column-restricted UPDATE. The contract link and sequence never change.
func (s *InMemory) Update(_ context.Context, visit *models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.visits[visit.ID.String()]
	if !exists {
		return sentinel.ErrNotFound
	}
	stored.ScheduledDate = visit.ScheduledDate
	stored.Status = visit.Status
	stored.TechnicianID = visit.TechnicianID
	stored.Report = visit.Report
	stored.UpdatedAt = visit.UpdatedAt
	stored.CompletedAt = nil
	if visit.CompletedAt != nil {
		t := *visit.CompletedAt
		stored.CompletedAt = &t
	}
	return nil
}

// FindByTenantAndID loads one visit. A visit of another tenant behaves
// exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, visitID id.VisitID) (*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visit, ok := s.visits[visitID.String()]
	if !ok || visit.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	return cloneVisit(visit), nil
}

// ListByTenant returns visits in schedule order: date first, then sequence.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.VisitFilter) ([]*models.Visit, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Visit, 0)
	for _, visit := range s.visits {
		if visit.TenantID != tenantID || !matchesFilter(visit, filter) {
			continue
		}
		matches = append(matches, cloneVisit(visit))
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].ScheduledDate.Equal(matches[j].ScheduledDate) {
			return matches[i].ScheduledDate.Before(matches[j].ScheduledDate)
		}
		if matches[i].Sequence != matches[j].Sequence {
			return matches[i].Sequence < matches[j].Sequence
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := len(matches)
	if filter.Offset >= total {
		return []*models.Visit{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matches[filter.Offset:end], total, nil
}

// ListOverdue returns scheduled visits across every tenant dated before the
// cutoff, oldest first.
func (s *InMemory) ListOverdue(_ context.Context, before time.Time, limit int) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Visit, 0)
	for _, visit := range s.visits {
		if visit.Status != models.VisitStatusScheduled || !visit.ScheduledDate.Before(before) {
			continue
		}
		matches = append(matches, cloneVisit(visit))
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].ScheduledDate.Equal(matches[j].ScheduledDate) {
			return matches[i].ScheduledDate.Before(matches[j].ScheduledDate)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CancelScheduled cancels every scheduled visit of the contract and reports
// how many it touched.
func (s *InMemory) CancelScheduled(_ context.Context, contractID id.ContractID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0
	for _, visit := range s.visits {
		if visit.ContractID != contractID || visit.Status != models.VisitStatusScheduled {
			continue
		}
		visit.Status = models.VisitStatusCancelled
		visit.UpdatedAt = now
		cancelled++
	}
	return cancelled, nil
}

func matchesFilter(visit *models.Visit, filter models.VisitFilter) bool {
	if !filter.ContractID.IsNil() && visit.ContractID != filter.ContractID {
		return false
	}
	if !filter.TechnicianID.IsNil() && visit.TechnicianID != filter.TechnicianID {
		return false
	}
	if !filter.BranchID.IsNil() && visit.BranchID != filter.BranchID {
		return false
	}
	if filter.Status != "" && visit.Status != filter.Status {
		return false
	}
	if !filter.From.IsZero() && visit.ScheduledDate.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && visit.ScheduledDate.After(filter.To) {
		return false
	}
	return true
}

func cloneVisit(visit *models.Visit) *models.Visit {
	clone := *visit
	if visit.CompletedAt != nil {
		t := *visit.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}
