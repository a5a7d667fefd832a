package handler

import (
	"strings"

	"fieldpos/internal/customer/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/email"
	strutil "fieldpos/pkg/platform/strings"
	"fieldpos/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

// CreateCustomerRequest registers a customer. Only the name is mandatory;
// the register often has nothing but a name and a phone number.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (r *CreateCustomerRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Address = strings.TrimSpace(r.Address)
}

func (r *CreateCustomerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > validation.MaxNameLength {
		fields["name"] = "name is too long"
	}
	if len(r.Phone) > validation.MaxPhoneLength {
		fields["phone"] = "phone is too long"
	}
	if r.Email != "" && !email.IsValid(r.Email) {
		fields["email"] = "a valid email address is required"
	} else if len(r.Email) > validation.MaxEmailLength {
		fields["email"] = "email is too long"
	}
	if len(r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateCustomerRequest) ToCommand(tenantID id.TenantID) *service.CreateCustomerCommand {
	return &service.CreateCustomerCommand{
		TenantID: tenantID,
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
	}
}

// UpdateCustomerRequest updates contact details. A present-but-empty phone,
// email, or address clears the field.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateCustomerRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimSpacePtr(r.Name)
	r.Phone = strutil.TrimSpacePtr(r.Phone)
	if r.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &lowered
	}
	r.Address = strutil.TrimSpacePtr(r.Address)
}

func (r *UpdateCustomerRequest) Validate() error {
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
	if r.Phone != nil && len(*r.Phone) > validation.MaxPhoneLength {
		fields["phone"] = "phone is too long"
	}
	if r.Email != nil && *r.Email != "" && !email.IsValid(*r.Email) {
		fields["email"] = "a valid email address is required"
	}
	if r.Address != nil && len(*r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateCustomerRequest) ToCommand() *service.UpdateCustomerCommand {
	return &service.UpdateCustomerCommand{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
	}
}
