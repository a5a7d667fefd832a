package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Tenant is a business operating on the platform. All branches, staff,
// catalog entries, sales, and maintenance contracts hang off one tenant.
type Tenant struct {
	ID        id.TenantID  `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewTenant(tenantID id.TenantID, name, phone, address string, now time.Time) (*Tenant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 255 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 255 characters or less")
	}
	return &Tenant{
		ID:        tenantID,
		Name:      name,
		Phone:     phone,
		Address:   address,
		Status:    TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Deactivate suspends the tenant. Suspended tenants are rejected by the
// request gate, which blocks the whole staff of the business at once.
// Returns an error if the tenant is already inactive.
func (t *Tenant) Deactivate(now time.Time) error {
	if !t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already inactive")
	}
	t.Status = TenantStatusInactive
	t.UpdatedAt = now
	return nil
}

// Reactivate restores a suspended tenant.
// Returns an error if the tenant is already active.
func (t *Tenant) Reactivate(now time.Time) error {
	if t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = now
	return nil
}

// UpdateProfile replaces the tenant's contact profile. The name stays
// mandatory; phone and address may be cleared.
func (t *Tenant) UpdateProfile(name, phone, address string, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 255 characters or less")
	}
	t.Name = name
	t.Phone = phone
	t.Address = address
	t.UpdatedAt = now
	return nil
}

// TenantDetails aggregates tenant metadata with counts for admin dashboards.
// Internal type - converted to TenantDetailsResponse for HTTP serialization.
type TenantDetails struct {
	ID          id.TenantID
	Name        string
	Phone       string
	Address     string
	Status      TenantStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	BranchCount int
	StaffCount  int
}

// TenantFilter narrows and pages tenant listings.
type TenantFilter struct {
	// Status filters to one lifecycle state; empty matches all.
	Status TenantStatus
	// Search matches a case-insensitive substring of the name.
	Search string
	Limit  int
	Offset int
}
