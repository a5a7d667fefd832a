package service

import (
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

const (
	maxNameLength   = 255
	maxCodeLength   = 64
	maxReasonLength = 255
)

// CreateCategoryCommand contains validated input for category creation.
type CreateCategoryCommand struct {
	TenantID id.TenantID
	Name     string
}

func (c *CreateCategoryCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(c.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	return nil
}

// UpdateCategoryCommand renames a category. Nil means "don't change".
type UpdateCategoryCommand struct {
	Name *string
}

func (c *UpdateCategoryCommand) Validate() error {
	if c.Name != nil {
		if *c.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		if len(*c.Name) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
		}
	}
	return nil
}

func (c *UpdateCategoryCommand) IsEmpty() bool {
	return c.Name == nil
}

// CreateProductCommand contains validated input for product creation.
// Stock is the opening balance; later movement goes through stock
// adjustments and sales.
type CreateProductCommand struct {
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
}

func (c *CreateProductCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(c.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	if len(c.SKU) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "sku must be 64 characters or less")
	}
	if len(c.Barcode) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "barcode must be 64 characters or less")
	}
	if c.Price < 0 {
		return dErrors.New(dErrors.CodeValidation, "price cannot be negative")
	}
	if c.Cost < 0 {
		return dErrors.New(dErrors.CodeValidation, "cost cannot be negative")
	}
	if c.Stock < 0 {
		return dErrors.New(dErrors.CodeValidation, "stock cannot be negative")
	}
	if c.LowStockThreshold < 0 {
		return dErrors.New(dErrors.CodeValidation, "low_stock_threshold cannot be negative")
	}
	return nil
}

// UpdateProductCommand contains validated input for product updates.
// All fields are optional; nil means "don't change". CategoryID pointing at
// the nil UUID clears the category assignment.
type UpdateProductCommand struct {
	CategoryID        *id.CategoryID
	Name              *string
	SKU               *string
	Barcode           *string
	Price             *float64
	Cost              *float64
	LowStockThreshold *int
	Maintainable      *bool
}

func (c *UpdateProductCommand) Validate() error {
	if c.Name != nil {
		if *c.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		if len(*c.Name) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
		}
	}
	if c.SKU != nil && len(*c.SKU) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "sku must be 64 characters or less")
	}
	if c.Barcode != nil && len(*c.Barcode) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "barcode must be 64 characters or less")
	}
	if c.Price != nil && *c.Price < 0 {
		return dErrors.New(dErrors.CodeValidation, "price cannot be negative")
	}
	if c.Cost != nil && *c.Cost < 0 {
		return dErrors.New(dErrors.CodeValidation, "cost cannot be negative")
	}
	if c.LowStockThreshold != nil && *c.LowStockThreshold < 0 {
		return dErrors.New(dErrors.CodeValidation, "low_stock_threshold cannot be negative")
	}
	return nil
}

func (c *UpdateProductCommand) IsEmpty() bool {
	return c.CategoryID == nil && c.Name == nil && c.SKU == nil && c.Barcode == nil &&
		c.Price == nil && c.Cost == nil && c.LowStockThreshold == nil && c.Maintainable == nil
}

// AdjustStockCommand moves stock by a signed delta. The reason lands in the
// log trail, not in a ledger table: the original system records adjustments
// the same way.
type AdjustStockCommand struct {
	Delta  int
	Reason string
}

func (c *AdjustStockCommand) Validate() error {
	if c.Delta == 0 {
		return dErrors.New(dErrors.CodeValidation, "delta cannot be zero")
	}
	if c.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	if len(c.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be 255 characters or less")
	}
	return nil
}
