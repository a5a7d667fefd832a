package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Branch is a physical location of a tenant. Cashiers and technicians are
// assigned to exactly one branch; sales and visits record which branch
// produced them.
type Branch struct {
	ID        id.BranchID  `json:"id"`
	TenantID  id.TenantID  `json:"tenant_id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	Status    BranchStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewBranch(branchID id.BranchID, tenantID id.TenantID, name, phone, address string, now time.Time) (*Branch, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch requires a tenant")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch name cannot be empty")
	}
	if len(name) > 255 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch name must be 255 characters or less")
	}
	return &Branch{
		ID:        branchID,
		TenantID:  tenantID,
		Name:      name,
		Phone:     phone,
		Address:   address,
		Status:    BranchStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (b *Branch) IsActive() bool {
	return b.Status == BranchStatusActive
}

// Deactivate closes the branch. Returns an error if already inactive.
func (b *Branch) Deactivate(now time.Time) error {
	if !b.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch is already inactive")
	}
	b.Status = BranchStatusInactive
	b.UpdatedAt = now
	return nil
}

// Reactivate reopens a closed branch. Returns an error if already active.
func (b *Branch) Reactivate(now time.Time) error {
	if b.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch is already active")
	}
	b.Status = BranchStatusActive
	b.UpdatedAt = now
	return nil
}

// UpdateProfile replaces the branch's contact profile.
func (b *Branch) UpdateProfile(name, phone, address string, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch name cannot be empty")
	}
	if len(name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch name must be 255 characters or less")
	}
	b.Name = name
	b.Phone = phone
	b.Address = address
	b.UpdatedAt = now
	return nil
}
