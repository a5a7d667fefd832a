package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Product is a sellable catalog entry. Stock is tracked per product, not per
// branch: the original system keeps one inventory pool per tenant.
// Maintainable products are the ones maintenance contracts may cover.
type Product struct {
	ID                id.ProductID
	TenantID          id.TenantID
	CategoryID        id.CategoryID
	Name              string
	SKU               string
	Barcode           string
	Price             float64
	Cost              float64
	Stock             int
	LowStockThreshold int
	Maintainable      bool
	Status            ProductStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductDetails carries the mutable attributes of a product. NewProduct and
// UpdateDetails validate the same struct, so creation and update cannot
// drift apart.
type ProductDetails struct {
	CategoryID        id.CategoryID
	Name              string
	SKU               string
	Barcode           string
	Price             float64
	Cost              float64
	LowStockThreshold int
	Maintainable      bool
}

func (d ProductDetails) check() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product name cannot be empty")
	}
	if len(d.Name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "product name must be 255 characters or less")
	}
	if d.Price < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "price cannot be negative")
	}
	if d.Cost < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "cost cannot be negative")
	}
	if d.LowStockThreshold < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "low stock threshold cannot be negative")
	}
	return nil
}

func NewProduct(productID id.ProductID, tenantID id.TenantID, details ProductDetails, stock int, now time.Time) (*Product, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product requires a tenant")
	}
	if err := details.check(); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "stock cannot be negative")
	}
	return &Product{
		ID:                productID,
		TenantID:          tenantID,
		CategoryID:        details.CategoryID,
		Name:              details.Name,
		SKU:               details.SKU,
		Barcode:           details.Barcode,
		Price:             details.Price,
		Cost:              details.Cost,
		Stock:             stock,
		LowStockThreshold: details.LowStockThreshold,
		Maintainable:      details.Maintainable,
		Status:            ProductStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock reports whether the product fell to or under its threshold.
// Products without a threshold never count as low.
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.Stock <= p.LowStockThreshold
}

// UpdateDetails replaces the product's attributes. Stock is not touched
// here; it only moves through stock adjustments and sales.
func (p *Product) UpdateDetails(details ProductDetails, now time.Time) error {
	if err := details.check(); err != nil {
		return err
	}
	p.CategoryID = details.CategoryID
	p.Name = details.Name
	p.SKU = details.SKU
	p.Barcode = details.Barcode
	p.Price = details.Price
	p.Cost = details.Cost
	p.LowStockThreshold = details.LowStockThreshold
	p.Maintainable = details.Maintainable
	p.UpdatedAt = now
	return nil
}

func (p *Product) Deactivate(now time.Time) error {
	if !p.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.UpdatedAt = now
	return nil
}

func (p *Product) Reactivate(now time.Time) error {
	if p.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "product is already active")
	}
	p.Status = ProductStatusActive
	p.UpdatedAt = now
	return nil
}

// ProductFilter narrows and pages product listings.
type ProductFilter struct {
	// CategoryID filters to one category; nil matches all.
	CategoryID id.CategoryID
	// Status filters to one lifecycle state; empty matches all.
	Status ProductStatus
	// Search matches a case-insensitive substring of name or SKU.
	Search string
	// LowStock keeps only products at or under their threshold.
	LowStock bool
	// Maintainable keeps only contract-eligible products when true.
	Maintainable bool
	Limit        int
	Offset       int
}
