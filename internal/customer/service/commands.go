package service

import (
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

const (
	maxNameLength    = 255
	maxPhoneLength   = 32
	maxEmailLength   = 255
	maxAddressLength = 500
)

// CreateCustomerCommand contains validated input for customer creation.
// Phone, email, and address are optional contact details; the phone is
// unique per tenant when present.
type CreateCustomerCommand struct {
	TenantID id.TenantID
	Name     string
	Phone    string
	Email    string
	Address  string
}

func (c *CreateCustomerCommand) Validate() error {
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
	if len(c.Email) > maxEmailLength {
		return dErrors.New(dErrors.CodeValidation, "email must be 255 characters or less")
	}
	if len(c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	return nil
}

// UpdateCustomerCommand contains validated input for customer updates.
// All fields are optional; nil means "don't change".
type UpdateCustomerCommand struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

func (c *UpdateCustomerCommand) Validate() error {
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
	if c.Email != nil && len(*c.Email) > maxEmailLength {
		return dErrors.New(dErrors.CodeValidation, "email must be 255 characters or less")
	}
	if c.Address != nil && len(*c.Address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	return nil
}

func (c *UpdateCustomerCommand) IsEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.Email == nil && c.Address == nil
}
