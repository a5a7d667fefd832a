// Package sale provides sale persistence.
package sale

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// InMemory stores sales in memory for the demo environment.
type InMemory struct {
	mu    sync.RWMutex
	sales map[string]*models.Sale
}

// NewInMemory creates an in-memory sale store.
func NewInMemory() *InMemory {
	return &InMemory{
		sales: make(map[string]*models.Sale),
	}
}

func (s *InMemory) Create(_ context.Context, sale *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sale.ID.String()
	if _, exists := s.sales[key]; exists {
		return fmt.Errorf("sale %s: %w", key, sentinel.ErrDuplicate)
	}
	// Mirrors the uq_sales_tenant_invoice index.
	for _, existing := range s.sales {
		if existing.TenantID == sale.TenantID && existing.InvoiceNo == sale.InvoiceNo {
			return fmt.Errorf("invoice %q: %w", sale.InvoiceNo, sentinel.ErrDuplicate)
		}
	}
	s.sales[key] = cloneSale(sale)
	return nil
}

// UpdateStatus persists only the lifecycle columns, matching the SQL store's
// column-restricted UPDATE.
func (s *InMemory) UpdateStatus(_ context.Context, sale *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.sales[sale.ID.String()]
	if !exists {
		return sentinel.ErrNotFound
	}
	stored.Status = sale.Status
	stored.UpdatedAt = sale.UpdatedAt
	stored.VoidedAt = nil
	if sale.VoidedAt != nil {
		t := *sale.VoidedAt
		stored.VoidedAt = &t
	}
	return nil
}

// FindByTenantAndID loads the sale with its items. A sale of another tenant
// behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[saleID.String()]
	if !ok || sale.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	return cloneSale(sale), nil
}

// ListByTenant returns sale summaries without items, newest first.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.SaleFilter) ([]*models.Sale, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Sale, 0)
	for _, sale := range s.sales {
		if sale.TenantID != tenantID || !matchesFilter(sale, filter) {
			continue
		}
		summary := cloneSale(sale)
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
		return []*models.Sale{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matches[filter.Offset:end], total, nil
}

func matchesFilter(sale *models.Sale, filter models.SaleFilter) bool {
	if !filter.BranchID.IsNil() && sale.BranchID != filter.BranchID {
		return false
	}
	if !filter.CashierID.IsNil() && sale.CashierID != filter.CashierID {
		return false
	}
	if !filter.CustomerID.IsNil() && sale.CustomerID != filter.CustomerID {
		return false
	}
	if filter.Status != "" && sale.Status != filter.Status {
		return false
	}
	if !filter.From.IsZero() && sale.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && sale.CreatedAt.After(filter.To) {
		return false
	}
	return true
}

func cloneSale(sale *models.Sale) *models.Sale {
	clone := *sale
	if sale.VoidedAt != nil {
		t := *sale.VoidedAt
		clone.VoidedAt = &t
	}
	clone.Items = make([]*models.SaleItem, len(sale.Items))
	for i, item := range sale.Items {
		itemClone := *item
		clone.Items[i] = &itemClone
	}
	return &clone
}
