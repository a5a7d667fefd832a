package models

import (
	"fmt"
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Staff is a person who can sign in: platform admins, tenant owners, and
// branch personnel. This is a pure domain entity - handlers map it to a
// response type, which is how the password hash stays out of API payloads.
type Staff struct {
	ID           id.StaffID
	TenantID     id.TenantID // nil for platform admins
	BranchID     id.BranchID // set when the role works out of one branch
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         id.Role
	Status       StaffStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStaffParams collects the fields required to create a staff account.
// The password arrives already hashed; plaintext never reaches the model.
type NewStaffParams struct {
	ID           id.StaffID
	TenantID     id.TenantID
	BranchID     id.BranchID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         id.Role
}

func NewStaff(p NewStaffParams, now time.Time) (*Staff, error) {
	if p.Name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff name cannot be empty")
	}
	if len(p.Name) > 255 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff name must be 255 characters or less")
	}
	if p.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff email cannot be empty")
	}
	if p.PasswordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff password hash cannot be empty")
	}
	if err := checkScope(p.Role, p.TenantID, p.BranchID); err != nil {
		return nil, err
	}
	return &Staff{
		ID:           p.ID,
		TenantID:     p.TenantID,
		BranchID:     p.BranchID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		Status:       StaffStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// checkScope enforces the role's tenant and branch requirements: admins are
// platform-level (no tenant, no branch), everyone else belongs to a tenant,
// and register or field roles work out of one branch.
func checkScope(role id.Role, tenantID id.TenantID, branchID id.BranchID) error {
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown staff role")
	}
	if role.RequiresTenant() && tenantID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("role %s requires a tenant", role))
	}
	if !role.RequiresTenant() && !tenantID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "platform admins do not belong to a tenant")
	}
	if role.RequiresBranch() && branchID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("role %s requires a branch", role))
	}
	if !role.RequiresTenant() && !branchID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "platform admins do not belong to a branch")
	}
	return nil
}

func (s *Staff) IsActive() bool {
	return s.Status == StaffStatusActive
}

// CanLogin reports whether the account may authenticate. Deactivated staff
// keep their row for sales history but cannot sign in.
func (s *Staff) CanLogin() bool {
	return s.IsActive()
}

// Deactivate disables the account. Returns an error if already inactive.
func (s *Staff) Deactivate(now time.Time) error {
	if !s.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff member is already inactive")
	}
	s.Status = StaffStatusInactive
	s.UpdatedAt = now
	return nil
}

// Reactivate restores a disabled account. Returns an error if already active.
func (s *Staff) Reactivate(now time.Time) error {
	if s.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff member is already active")
	}
	s.Status = StaffStatusActive
	s.UpdatedAt = now
	return nil
}

// UpdateProfile replaces name and phone. The name stays mandatory; the email
// is the login identifier and never changes.
func (s *Staff) UpdateProfile(name, phone string, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff name cannot be empty")
	}
	if len(name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff name must be 255 characters or less")
	}
	s.Name = name
	s.Phone = phone
	s.UpdatedAt = now
	return nil
}

// Reassign changes role and branch together. The pair is validated as a unit
// because some roles are tied to a branch, and a tenant account can never
// become a platform admin.
func (s *Staff) Reassign(role id.Role, branchID id.BranchID, now time.Time) error {
	if err := checkScope(role, s.TenantID, branchID); err != nil {
		return err
	}
	s.Role = role
	s.BranchID = branchID
	s.UpdatedAt = now
	return nil
}

// StaffFilter narrows and pages staff listings. Zero values match all.
type StaffFilter struct {
	Role     id.Role
	BranchID id.BranchID
	Status   StaffStatus
	// Search matches a case-insensitive substring of the name or email.
	Search string
	Limit  int
	Offset int
}
