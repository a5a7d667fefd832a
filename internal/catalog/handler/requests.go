package handler

import (
	"strings"

	"fieldpos/internal/catalog/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	strutil "fieldpos/pkg/platform/strings"
	"fieldpos/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r *CreateCategoryRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateCategoryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > validation.MaxNameLength {
		fields["name"] = "name is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateCategoryRequest) ToCommand(tenantID id.TenantID) *service.CreateCategoryCommand {
	return &service.CreateCategoryCommand{TenantID: tenantID, Name: r.Name}
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
}

func (r *UpdateCategoryRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimSpacePtr(r.Name)
}

func (r *UpdateCategoryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name != nil {
		if *r.Name == "" {
			fields["name"] = "name cannot be empty"
		} else if len(*r.Name) > validation.MaxNameLength {
			fields["name"] = "name is too long"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateCategoryRequest) ToCommand() *service.UpdateCategoryCommand {
	return &service.UpdateCategoryCommand{Name: r.Name}
}

// CreateProductRequest carries the opening stock; every later movement goes
// through the adjust-stock endpoint or a sale.
type CreateProductRequest struct {
	CategoryID        string  `json:"category_id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Barcode           string  `json:"barcode"`
	Price             float64 `json:"price"`
	Cost              float64 `json:"cost"`
	Stock             int     `json:"stock"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Maintainable      bool    `json:"maintainable"`
}

func (r *CreateProductRequest) Normalize() {
	if r == nil {
		return
	}
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	r.Name = strings.TrimSpace(r.Name)
	r.SKU = strings.TrimSpace(r.SKU)
	r.Barcode = strings.TrimSpace(r.Barcode)
}

func (r *CreateProductRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > validation.MaxNameLength {
		fields["name"] = "name is too long"
	}
	if len(r.SKU) > validation.MaxSKULength {
		fields["sku"] = "sku is too long"
	}
	if len(r.Barcode) > validation.MaxSKULength {
		fields["barcode"] = "barcode is too long"
	}
	if r.Price < 0 {
		fields["price"] = "price cannot be negative"
	}
	if r.Cost < 0 {
		fields["cost"] = "cost cannot be negative"
	}
	if r.Stock < 0 {
		fields["stock"] = "stock cannot be negative"
	}
	if r.LowStockThreshold < 0 {
		fields["low_stock_threshold"] = "low_stock_threshold cannot be negative"
	}
	if r.CategoryID != "" {
		if _, err := id.ParseCategoryID(r.CategoryID); err != nil {
			fields["category_id"] = "invalid category id"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateProductRequest) ToCommand(tenantID id.TenantID) *service.CreateProductCommand {
	// Validate already checked the category ID format; empty means
	// uncategorized.
	categoryID, _ := id.ParseCategoryID(r.CategoryID)
	return &service.CreateProductCommand{
		TenantID:          tenantID,
		CategoryID:        categoryID,
		Name:              r.Name,
		SKU:               r.SKU,
		Barcode:           r.Barcode,
		Price:             r.Price,
		Cost:              r.Cost,
		Stock:             r.Stock,
		LowStockThreshold: r.LowStockThreshold,
		Maintainable:      r.Maintainable,
	}
}

// UpdateProductRequest updates product details. Stock is deliberately
// absent; a present-but-empty category_id clears the category assignment.
type UpdateProductRequest struct {
	CategoryID        *string  `json:"category_id,omitempty"`
	Name              *string  `json:"name,omitempty"`
	SKU               *string  `json:"sku,omitempty"`
	Barcode           *string  `json:"barcode,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Cost              *float64 `json:"cost,omitempty"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
	Maintainable      *bool    `json:"maintainable,omitempty"`
}

func (r *UpdateProductRequest) Normalize() {
	if r == nil {
		return
	}
	r.CategoryID = strutil.TrimSpacePtr(r.CategoryID)
	r.Name = strutil.TrimSpacePtr(r.Name)
	r.SKU = strutil.TrimSpacePtr(r.SKU)
	r.Barcode = strutil.TrimSpacePtr(r.Barcode)
}

func (r *UpdateProductRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name != nil {
		if *r.Name == "" {
			fields["name"] = "name cannot be empty"
		} else if len(*r.Name) > validation.MaxNameLength {
			fields["name"] = "name is too long"
		}
	}
	if r.SKU != nil && len(*r.SKU) > validation.MaxSKULength {
		fields["sku"] = "sku is too long"
	}
	if r.Barcode != nil && len(*r.Barcode) > validation.MaxSKULength {
		fields["barcode"] = "barcode is too long"
	}
	if r.Price != nil && *r.Price < 0 {
		fields["price"] = "price cannot be negative"
	}
	if r.Cost != nil && *r.Cost < 0 {
		fields["cost"] = "cost cannot be negative"
	}
	if r.LowStockThreshold != nil && *r.LowStockThreshold < 0 {
		fields["low_stock_threshold"] = "low_stock_threshold cannot be negative"
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		if _, err := id.ParseCategoryID(*r.CategoryID); err != nil {
			fields["category_id"] = "invalid category id"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateProductRequest) ToCommand() *service.UpdateProductCommand {
	cmd := &service.UpdateProductCommand{
		Name:              r.Name,
		SKU:               r.SKU,
		Barcode:           r.Barcode,
		Price:             r.Price,
		Cost:              r.Cost,
		LowStockThreshold: r.LowStockThreshold,
		Maintainable:      r.Maintainable,
	}
	if r.CategoryID != nil {
		// Validate already checked the format; empty clears the assignment.
		categoryID, _ := id.ParseCategoryID(*r.CategoryID)
		cmd.CategoryID = &categoryID
	}
	return cmd
}

// AdjustStockRequest moves stock by a signed delta, with a reason for the
// log trail.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (r *AdjustStockRequest) Normalize() {
	if r == nil {
		return
	}
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *AdjustStockRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Delta == 0 {
		fields["delta"] = "delta cannot be zero"
	}
	if r.Reason == "" {
		fields["reason"] = "reason is required"
	} else if len(r.Reason) > validation.MaxNameLength {
		fields["reason"] = "reason is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *AdjustStockRequest) ToCommand() *service.AdjustStockCommand {
	return &service.AdjustStockCommand{Delta: r.Delta, Reason: r.Reason}
}
