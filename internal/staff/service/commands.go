package service

import (
	"fmt"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/email"
)

const (
	maxNameLength  = 255
	maxPhoneLength = 32
	minPasswordLen = 8
)

// CreateStaffCommand contains validated input for staff creation. Platform
// admins are provisioned out of band, so Role is always a tenant role here.
type CreateStaffCommand struct {
	TenantID id.TenantID
	BranchID id.BranchID
	Name     string
	Email    string
	Phone    string
	Password string
	Role     id.Role
}

func (c *CreateStaffCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(c.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	if !email.IsValid(c.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid email address")
	}
	if len(c.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 32 characters or less")
	}
	if len(c.Password) < minPasswordLen {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if !c.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	if c.Role == id.RoleAdmin {
		return dErrors.New(dErrors.CodeValidation, "admin accounts cannot be created through staff management")
	}
	if c.Role.RequiresBranch() && c.BranchID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("role %s requires a branch", c.Role))
	}
	return nil
}

// UpdateStaffCommand contains validated input for staff updates. All fields
// are optional; nil means "don't change". BranchID pointing at the nil UUID
// clears the assignment.
type UpdateStaffCommand struct {
	Name     *string
	Phone    *string
	Role     *id.Role
	BranchID *id.BranchID
}

func (c *UpdateStaffCommand) Validate() error {
	if c.Name != nil {
		if *c.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		if len(*c.Name) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
		}
	}
	if c.Phone != nil && len(*c.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 32 characters or less")
	}
	if c.Role != nil {
		if !c.Role.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown role")
		}
		if *c.Role == id.RoleAdmin {
			return dErrors.New(dErrors.CodeValidation, "staff cannot be promoted to platform admin")
		}
	}
	return nil
}

// IsEmpty returns true if the command contains no updates.
func (c *UpdateStaffCommand) IsEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.Role == nil && c.BranchID == nil
}
