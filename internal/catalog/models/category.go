package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Category groups products for browsing and reporting. Categories are
// tenant-scoped and their names are unique within the tenant.
type Category struct {
	ID        id.CategoryID
	TenantID  id.TenantID
	Name      string
	Status    CategoryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(categoryID id.CategoryID, tenantID id.TenantID, name string, now time.Time) (*Category, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "category requires a tenant")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "category name cannot be empty")
	}
	if len(name) > 255 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "category name must be 255 characters or less")
	}
	return &Category{
		ID:        categoryID,
		TenantID:  tenantID,
		Name:      name,
		Status:    CategoryStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}

func (c *Category) Rename(name string, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "category name cannot be empty")
	}
	if len(name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "category name must be 255 characters or less")
	}
	c.Name = name
	c.UpdatedAt = now
	return nil
}

// Deactivate hides the category from the register. Products keep their
// category assignment; only the grouping stops being offered.
func (c *Category) Deactivate(now time.Time) error {
	if !c.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "category is already inactive")
	}
	c.Status = CategoryStatusInactive
	c.UpdatedAt = now
	return nil
}

func (c *Category) Reactivate(now time.Time) error {
	if c.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "category is already active")
	}
	c.Status = CategoryStatusActive
	c.UpdatedAt = now
	return nil
}
