package service

import (
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/email"
)

const (
	maxNameLength    = 255
	maxPhoneLength   = 32
	maxAddressLength = 500
	minPasswordLen   = 8
)

// CreateTenantCommand contains validated input for tenant onboarding.
// Onboarding provisions the tenant, its default branch, and the owner
// account in one transaction.
type CreateTenantCommand struct {
	Name       string
	Phone      string
	Address    string
	BranchName string

	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
}

func (c *CreateTenantCommand) Validate() error {
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(c.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	if len(c.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 32 characters or less")
	}
	if len(c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	if c.OwnerName == "" {
		return dErrors.New(dErrors.CodeValidation, "owner_name is required")
	}
	if !email.IsValid(c.OwnerEmail) {
		return dErrors.New(dErrors.CodeValidation, "owner_email must be a valid email address")
	}
	if len(c.OwnerPassword) < minPasswordLen {
		return dErrors.New(dErrors.CodeValidation, "owner_password must be at least 8 characters")
	}
	return nil
}

// UpdateTenantCommand contains validated input for tenant profile updates.
// All fields are optional; nil means "don't change".
type UpdateTenantCommand struct {
	Name    *string
	Phone   *string
	Address *string
}

func (c *UpdateTenantCommand) Validate() error {
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
	if c.Address != nil && len(*c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	return nil
}

// IsEmpty returns true if the command contains no updates.
func (c *UpdateTenantCommand) IsEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.Address == nil
}

// CreateBranchCommand contains validated input for branch creation.
type CreateBranchCommand struct {
	TenantID id.TenantID
	Name     string
	Phone    string
	Address  string
}

func (c *CreateBranchCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(c.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	if len(c.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 32 characters or less")
	}
	if len(c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	return nil
}

// UpdateBranchCommand contains validated input for branch profile updates.
type UpdateBranchCommand struct {
	Name    *string
	Phone   *string
	Address *string
}

func (c *UpdateBranchCommand) Validate() error {
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
	if c.Address != nil && len(*c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	return nil
}

func (c *UpdateBranchCommand) IsEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.Address == nil
}
