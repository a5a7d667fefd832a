package handler

import (
	"strings"

	"fieldpos/internal/staff/service"
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

// CreateStaffRequest has no tenant field: the tenant comes from the
// authenticated actor, never from the client. Platform admin is not an
// assignable role here.
type CreateStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id"`
}

func (r *CreateStaffRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.BranchID = strings.TrimSpace(r.BranchID)
}

func (r *CreateStaffRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > validation.MaxNameLength {
		fields["name"] = "name is too long"
	}
	if !email.IsValid(r.Email) {
		fields["email"] = "a valid email address is required"
	} else if len(r.Email) > validation.MaxEmailLength {
		fields["email"] = "email is too long"
	}
	if len(r.Phone) > validation.MaxPhoneLength {
		fields["phone"] = "phone is too long"
	}
	if len(r.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	role := id.Role(r.Role)
	switch {
	case r.Role == "":
		fields["role"] = "role is required"
	case !role.IsValid() || role == id.RoleAdmin:
		fields["role"] = "role must be one of owner, cashier, maintenance, technician"
	case role.RequiresBranch() && r.BranchID == "":
		fields["branch_id"] = "this role requires a branch"
	}
	if r.BranchID != "" {
		if _, err := id.ParseBranchID(r.BranchID); err != nil {
			fields["branch_id"] = "invalid branch id"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateStaffRequest) ToCommand(tenantID id.TenantID) *service.CreateStaffCommand {
	// Validate already checked the branch ID format; empty means unassigned.
	branchID, _ := id.ParseBranchID(r.BranchID)
	return &service.CreateStaffCommand{
		TenantID: tenantID,
		BranchID: branchID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
		Role:     id.Role(r.Role),
	}
}

// UpdateStaffRequest updates profile and assignment. Email is the login
// identifier and cannot change. A present-but-empty branch_id clears the
// branch assignment.
type UpdateStaffRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
}

func (r *UpdateStaffRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimSpacePtr(r.Name)
	r.Phone = strutil.TrimSpacePtr(r.Phone)
	if r.Role != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.Role))
		r.Role = &lowered
	}
	r.BranchID = strutil.TrimSpacePtr(r.BranchID)
}

func (r *UpdateStaffRequest) Validate() error {
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
	if r.Role != nil {
		role := id.Role(*r.Role)
		if !role.IsValid() || role == id.RoleAdmin {
			fields["role"] = "role must be one of owner, cashier, maintenance, technician"
		}
	}
	if r.BranchID != nil && *r.BranchID != "" {
		if _, err := id.ParseBranchID(*r.BranchID); err != nil {
			fields["branch_id"] = "invalid branch id"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *UpdateStaffRequest) ToCommand() *service.UpdateStaffCommand {
	cmd := &service.UpdateStaffCommand{
		Name:  r.Name,
		Phone: r.Phone,
	}
	if r.Role != nil {
		role := id.Role(*r.Role)
		cmd.Role = &role
	}
	if r.BranchID != nil {
		// Validate already checked the format; empty clears the assignment.
		branchID, _ := id.ParseBranchID(*r.BranchID)
		cmd.BranchID = &branchID
	}
	return cmd
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if !email.IsValid(r.Email) {
		fields["email"] = "a valid email address is required"
	}
	if r.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}
