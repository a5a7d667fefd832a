package handler

import (
	"strings"

	"fieldpos/internal/tenant/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/email"
	strutil "fieldpos/pkg/platform/strings"
	"fieldpos/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.
// Validation collects per-field messages so the client can render them
// next to the form inputs.

type CreateTenantRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BranchName string `json:"branch_name"`

	OwnerName     string `json:"owner_name"`
	OwnerEmail    string `json:"owner_email"`
	OwnerPassword string `json:"owner_password"`
}

func (r *CreateTenantRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.BranchName = strings.TrimSpace(r.BranchName)
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.OwnerEmail = strings.ToLower(strings.TrimSpace(r.OwnerEmail))
}

func (r *CreateTenantRequest) Validate() error {
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
	if len(r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(r.BranchName) > validation.MaxNameLength {
		fields["branch_name"] = "branch name is too long"
	}
	if r.OwnerName == "" {
		fields["owner_name"] = "owner name is required"
	} else if len(r.OwnerName) > validation.MaxNameLength {
		fields["owner_name"] = "owner name is too long"
	}
	if !email.IsValid(r.OwnerEmail) {
		fields["owner_email"] = "a valid email address is required"
	} else if len(r.OwnerEmail) > validation.MaxEmailLength {
		fields["owner_email"] = "email is too long"
	}
	if len(r.OwnerPassword) < 8 {
		fields["owner_password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateTenantRequest) ToCommand() *service.CreateTenantCommand {
	return &service.CreateTenantCommand{
		Name:          r.Name,
		Phone:         r.Phone,
		Address:       r.Address,
		BranchName:    r.BranchName,
		OwnerName:     r.OwnerName,
		OwnerEmail:    r.OwnerEmail,
		OwnerPassword: r.OwnerPassword,
	}
}

type UpdateTenantRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateTenantRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimSpacePtr(r.Name)
	r.Phone = strutil.TrimSpacePtr(r.Phone)
	r.Address = strutil.TrimSpacePtr(r.Address)
}

func (r *UpdateTenantRequest) Validate() error {
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
	if r.Address != nil && len(*r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateTenantRequest) ToCommand() *service.UpdateTenantCommand {
	return &service.UpdateTenantCommand{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// CreateBranchRequest has no tenant field: the tenant comes from the
// authenticated actor, never from the client.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *CreateBranchRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

func (r *CreateBranchRequest) Validate() error {
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
	if len(r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateBranchRequest) ToCommand(tenantID id.TenantID) *service.CreateBranchCommand {
	return &service.CreateBranchCommand{
		TenantID: tenantID,
		Name:     r.Name,
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateBranchRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimSpacePtr(r.Name)
	r.Phone = strutil.TrimSpacePtr(r.Phone)
	r.Address = strutil.TrimSpacePtr(r.Address)
}

func (r *UpdateBranchRequest) Validate() error {
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
	if r.Address != nil && len(*r.Address) > validation.MaxAddressLength {
		fields["address"] = "address is too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateBranchRequest) ToCommand() *service.UpdateBranchCommand {
	return &service.UpdateBranchCommand{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
}
