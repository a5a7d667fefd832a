package handler

import (
	"time"

	"fieldpos/internal/staff/models"
)

// HTTP Response DTOs - the JSON shapes the API returns. The staff entity is
// mapped field by field; the password hash has no counterpart here.

type StaffResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	BranchID  string    `json:"branch_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StaffListResponse struct {
	Staff []*StaffResponse `json:"staff"`
	Total int              `json:"total"`
}

// LoginResponse carries the access token and the account it belongs to.
type LoginResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int            `json:"expires_in"`
	Staff     *StaffResponse `json:"staff"`
}

func toStaffResponse(staff *models.Staff) *StaffResponse {
	resp := &StaffResponse{
		ID:        staff.ID.String(),
		Name:      staff.Name,
		Email:     staff.Email,
		Phone:     staff.Phone,
		Role:      staff.Role.String(),
		Status:    staff.Status.String(),
		CreatedAt: staff.CreatedAt,
		UpdatedAt: staff.UpdatedAt,
	}
	if !staff.TenantID.IsNil() {
		resp.TenantID = staff.TenantID.String()
	}
	if !staff.BranchID.IsNil() {
		resp.BranchID = staff.BranchID.String()
	}
	return resp
}

func toStaffListResponse(staff []*models.Staff, total int) *StaffListResponse {
	items := make([]*StaffResponse, 0, len(staff))
	for _, st := range staff {
		items = append(items, toStaffResponse(st))
	}
	return &StaffListResponse{Staff: items, Total: total}
}
