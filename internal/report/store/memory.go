package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	customermodels "fieldpos/internal/customer/models"
	maintmodels "fieldpos/internal/maintenance/models"
	"fieldpos/internal/report/models"
	salemodels "fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	staffmodels "fieldpos/internal/staff/models"
	tenantmodels "fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
)

// SalesLister is the slice of the sale store the memory source reads.
type SalesLister interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter salemodels.SaleFilter) ([]*salemodels.Sale, int, error)
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*salemodels.Sale, error)
}

// ContractsLister is the slice of the contract store the memory source
// reads.
type ContractsLister interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter maintmodels.ContractFilter) ([]*maintmodels.Contract, int, error)
}

// VisitsLister is the slice of the visit store the memory source reads.
type VisitsLister interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter maintmodels.VisitFilter) ([]*maintmodels.Visit, int, error)
}

// BranchFinder resolves branch names for export rows.
type BranchFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*tenantmodels.Branch, error)
}

// StaffFinder resolves cashier names for export rows.
type StaffFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*staffmodels.Staff, error)
}

// CustomerFinder resolves customer names for export rows.
type CustomerFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*customermodels.Customer, error)
}

// MemoryDeps bundles the demo stores the memory source reads.
type MemoryDeps struct {
	Sales     SalesLister
	Contracts ContractsLister
	Visits    VisitsLister
	Branches  BranchFinder
	Staff     StaffFinder
	Customers CustomerFinder
}

// Memory aggregates reports by folding over the in-memory stores the
// demo environment runs on. Name lookups mirror the SQL joins.
type Memory struct {
	deps MemoryDeps
}

// NewMemory constructs a memory-backed report source.
func NewMemory(deps MemoryDeps) *Memory {
	return &Memory{deps: deps}
}

// SalesTotals sums completed sales inside the period.
func (m *Memory) SalesTotals(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (models.SalesTotals, error) {
	sales, err := m.periodSales(ctx, tenantID, q, true)
	if err != nil {
		return models.SalesTotals{}, err
	}
	var totals models.SalesTotals
	for _, sale := range sales {
		totals.Revenue += sale.Total
		totals.SaleCount++
	}
	return totals, nil
}

// TopProducts ranks the period's products by units sold, revenue breaking
// ties. List rows carry no items, so each sale is re-read to reach them.
func (m *Memory) TopProducts(ctx context.Context, tenantID id.TenantID, q models.SalesQuery, limit int) ([]models.TopProduct, error) {
	sales, err := m.periodSales(ctx, tenantID, q, true)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[id.ProductID]*models.TopProduct)
	for _, summary := range sales {
		sale, err := m.deps.Sales.FindByTenantAndID(ctx, tenantID, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("load sale %s: %w", summary.ID, err)
		}
		for _, item := range sale.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &models.TopProduct{ProductID: item.ProductID, ProductName: item.ProductName}
				byProduct[item.ProductID] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.LineTotal
		}
	}

	top := make([]models.TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductName < top[j].ProductName
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// SaleRows returns the period's sales as flat export rows, oldest first,
// voided ones included.
func (m *Memory) SaleRows(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) ([]models.SaleRow, error) {
	sales, err := m.periodSales(ctx, tenantID, q, false)
	if err != nil {
		return nil, err
	}
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].CreatedAt.Before(sales[j].CreatedAt)
		}
		return sales[i].ID.String() < sales[j].ID.String()
	})

	names := newNameResolver(m.deps, tenantID)
	rows := make([]models.SaleRow, 0, len(sales))
	for _, sale := range sales {
		branchName, err := names.branch(ctx, sale.BranchID)
		if err != nil {
			return nil, err
		}
		cashierName, err := names.cashier(ctx, sale.CashierID)
		if err != nil {
			return nil, err
		}
		customerName := ""
		if !sale.CustomerID.IsNil() {
			customerName, err = names.customer(ctx, sale.CustomerID)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, models.SaleRow{
			InvoiceNo:     sale.InvoiceNo,
			CreatedAt:     sale.CreatedAt,
			BranchName:    branchName,
			CashierName:   cashierName,
			CustomerName:  customerName,
			PaymentMethod: sale.PaymentMethod,
			Status:        string(sale.Status),
			Subtotal:      sale.Subtotal,
			Discount:      sale.Discount,
			Total:         sale.Total,
		})
	}
	return rows, nil
}

// ContractCounts tallies the tenant's contracts by status.
func (m *Memory) ContractCounts(ctx context.Context, tenantID id.TenantID) (models.ContractCounts, error) {
	contracts, _, err := m.deps.Contracts.ListByTenant(ctx, tenantID, maintmodels.ContractFilter{})
	if err != nil {
		return models.ContractCounts{}, fmt.Errorf("list contracts: %w", err)
	}
	var counts models.ContractCounts
	for _, contract := range contracts {
		switch contract.Status {
		case maintmodels.ContractStatusActive:
			counts.Active++
		case maintmodels.ContractStatusExpired:
			counts.Expired++
		case maintmodels.ContractStatusCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}

// VisitOutcomes counts completed and missed visits scheduled inside the
// period.
func (m *Memory) VisitOutcomes(ctx context.Context, tenantID id.TenantID, period models.Period) (models.VisitOutcomes, error) {
	visits, _, err := m.deps.Visits.ListByTenant(ctx, tenantID, maintmodels.VisitFilter{
		From: period.From,
		To:   period.To,
	})
	if err != nil {
		return models.VisitOutcomes{}, fmt.Errorf("list visits: %w", err)
	}
	var outcomes models.VisitOutcomes
	for _, visit := range visits {
		switch visit.Status {
		case maintmodels.VisitStatusCompleted:
			outcomes.Completed++
		case maintmodels.VisitStatusMissed:
			outcomes.Missed++
		}
	}
	return outcomes, nil
}

// UpcomingVisits counts visits still scheduled on or after the given day.
func (m *Memory) UpcomingVisits(ctx context.Context, tenantID id.TenantID, onOrAfter time.Time) (int, error) {
	_, total, err := m.deps.Visits.ListByTenant(ctx, tenantID, maintmodels.VisitFilter{
		Status: maintmodels.VisitStatusScheduled,
		From:   onOrAfter,
	})
	if err != nil {
		return 0, fmt.Errorf("list visits: %w", err)
	}
	return total, nil
}

// periodSales lists the tenant's sales inside the period. The store's To
// filter compares timestamps inclusively, so the upper bound is applied
// here half-open instead, matching the SQL source.
func (m *Memory) periodSales(ctx context.Context, tenantID id.TenantID, q models.SalesQuery, completedOnly bool) ([]*salemodels.Sale, error) {
	filter := salemodels.SaleFilter{
		BranchID: q.BranchID,
		From:     q.From,
	}
	if completedOnly {
		filter.Status = salemodels.SaleStatusCompleted
	}
	sales, _, err := m.deps.Sales.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	next := q.NextDay()
	kept := make([]*salemodels.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.CreatedAt.Before(next) {
			kept = append(kept, sale)
		}
	}
	return kept, nil
}

// nameResolver memoizes the branch, cashier, and customer lookups behind
// export rows. A missing reference resolves to an empty name.
type nameResolver struct {
	deps      MemoryDeps
	tenantID  id.TenantID
	branches  map[id.BranchID]string
	staff     map[id.StaffID]string
	customers map[id.CustomerID]string
}

func newNameResolver(deps MemoryDeps, tenantID id.TenantID) *nameResolver {
	return &nameResolver{
		deps:      deps,
		tenantID:  tenantID,
		branches:  make(map[id.BranchID]string),
		staff:     make(map[id.StaffID]string),
		customers: make(map[id.CustomerID]string),
	}
}

func (r *nameResolver) branch(ctx context.Context, branchID id.BranchID) (string, error) {
	if name, ok := r.branches[branchID]; ok {
		return name, nil
	}
	branch, err := r.deps.Branches.FindByTenantAndID(ctx, r.tenantID, branchID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return "", fmt.Errorf("resolve branch %s: %w", branchID, err)
	}
	name := ""
	if err == nil {
		name = branch.Name
	}
	r.branches[branchID] = name
	return name, nil
}

func (r *nameResolver) cashier(ctx context.Context, staffID id.StaffID) (string, error) {
	if name, ok := r.staff[staffID]; ok {
		return name, nil
	}
	member, err := r.deps.Staff.FindByTenantAndID(ctx, r.tenantID, staffID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return "", fmt.Errorf("resolve cashier %s: %w", staffID, err)
	}
	name := ""
	if err == nil {
		name = member.Name
	}
	r.staff[staffID] = name
	return name, nil
}

func (r *nameResolver) customer(ctx context.Context, customerID id.CustomerID) (string, error) {
	if name, ok := r.customers[customerID]; ok {
		return name, nil
	}
	customer, err := r.deps.Customers.FindByTenantAndID(ctx, r.tenantID, customerID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return "", fmt.Errorf("resolve customer %s: %w", customerID, err)
	}
	name := ""
	if err == nil {
		name = customer.Name
	}
	r.customers[customerID] = name
	return name, nil
}
