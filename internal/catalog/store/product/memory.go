package product

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

// InMemory stores products in memory for the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	products map[string]*models.Product
}

// NewInMemory creates an in-memory product store.
func NewInMemory() *InMemory {
	return &InMemory{
		products: make(map[string]*models.Product),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.ID.String()
	if _, exists := s.products[key]; exists {
		return fmt.Errorf("product %s: %w", key, sentinel.ErrDuplicate)
	}
	if s.skuTaken(p.TenantID, p.SKU, p.ID) {
		return fmt.Errorf("product sku %q: %w", p.SKU, sentinel.ErrDuplicate)
	}
	clone := *p
	s.products[key] = &clone
	return nil
}

// Update persists every column except stock. Stock only moves through
// AdjustStock, so a stale details update cannot overwrite a concurrent
// sale's decrement.
func (s *InMemory) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.ID.String()
	existing, ok := s.products[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	if s.skuTaken(p.TenantID, p.SKU, p.ID) {
		return fmt.Errorf("product sku %q: %w", p.SKU, sentinel.ErrDuplicate)
	}
	clone := *p
	clone.Stock = existing.Stock
	s.products[key] = &clone
	return nil
}

// skuTaken mirrors the uq_products_tenant_sku index: non-empty SKUs are
// unique per tenant. Caller holds the lock.
func (s *InMemory) skuTaken(tenantID id.TenantID, sku string, self id.ProductID) bool {
	if sku == "" {
		return false
	}
	for _, existing := range s.products {
		if existing.ID == self {
			continue
		}
		if existing.TenantID == tenantID && existing.SKU == sku {
			return true
		}
	}
	return false
}

// FindByTenantAndID scopes the lookup to the owning tenant: a product ID
// from another tenant behaves exactly like a missing one.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID.String()]
	if !ok || p.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// FindByCode resolves an exact barcode or SKU within the tenant.
func (s *InMemory) FindByCode(_ context.Context, tenantID id.TenantID, code string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.TenantID != tenantID {
			continue
		}
		if (p.Barcode != "" && p.Barcode == code) || (p.SKU != "" && p.SKU == code) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.ProductFilter) ([]*models.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.Product, 0)
	for _, p := range s.products {
		if p.TenantID != tenantID {
			continue
		}
		if !filter.CategoryID.IsNil() && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.LowStock && !p.IsLowStock() {
			continue
		}
		if filter.Maintainable && !p.Maintainable {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.SKU), needle) {
				continue
			}
		}
		clone := *p
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
		return []*models.Product{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matches[filter.Offset:end], total, nil
}

// AdjustStock applies a signed delta atomically. A move below zero leaves
// the product untouched and reports sentinel.ErrInsufficientStock.
func (s *InMemory) AdjustStock(_ context.Context, tenantID id.TenantID, productID id.ProductID, delta int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID.String()]
	if !ok || p.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		return nil, fmt.Errorf("product %s has %d in stock: %w", p.ID, p.Stock, sentinel.ErrInsufficientStock)
	}
	p.Stock = next
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	return &clone, nil
}
