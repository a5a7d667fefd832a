package handler

import (
	"time"

	"fieldpos/internal/tenant/models"
)

type TenantResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Phone     string              `json:"phone,omitempty"`
	Address   string              `json:"address,omitempty"`
	Status    models.TenantStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateTenantResponse returns everything provisioned during onboarding so
// the admin console can link straight to the new business.
type CreateTenantResponse struct {
	TenantID string          `json:"tenant_id"`
	OwnerID  string          `json:"owner_id"`
	Tenant   *TenantResponse `json:"tenant"`
	Branch   *BranchResponse `json:"branch"`
}

type TenantDetailsResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone,omitempty"`
	Address     string              `json:"address,omitempty"`
	Status      models.TenantStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	BranchCount int                 `json:"branch_count"`
	StaffCount  int                 `json:"staff_count"`
}

type TenantListResponse struct {
	Tenants []*TenantResponse `json:"tenants"`
	Total   int               `json:"total"`
}

type BranchResponse struct {
	ID        string              `json:"id"`
	TenantID  string              `json:"tenant_id"`
	Name      string              `json:"name"`
	Phone     string              `json:"phone,omitempty"`
	Address   string              `json:"address,omitempty"`
	Status    models.BranchStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type BranchListResponse struct {
	Branches []*BranchResponse `json:"branches"`
	Total    int               `json:"total"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Phone:     t.Phone,
		Address:   t.Address,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTenantListResponse(tenants []*models.Tenant, total int) *TenantListResponse {
	responses := make([]*TenantResponse, len(tenants))
	for i, t := range tenants {
		responses[i] = toTenantResponse(t)
	}
	return &TenantListResponse{Tenants: responses, Total: total}
}

func toTenantDetailsResponse(td *models.TenantDetails) *TenantDetailsResponse {
	return &TenantDetailsResponse{
		ID:          td.ID.String(),
		Name:        td.Name,
		Phone:       td.Phone,
		Address:     td.Address,
		Status:      td.Status,
		CreatedAt:   td.CreatedAt,
		UpdatedAt:   td.UpdatedAt,
		BranchCount: td.BranchCount,
		StaffCount:  td.StaffCount,
	}
}

func toBranchResponse(b *models.Branch) *BranchResponse {
	return &BranchResponse{
		ID:        b.ID.String(),
		TenantID:  b.TenantID.String(),
		Name:      b.Name,
		Phone:     b.Phone,
		Address:   b.Address,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBranchListResponse(branches []*models.Branch) *BranchListResponse {
	responses := make([]*BranchResponse, len(branches))
	for i, b := range branches {
		responses[i] = toBranchResponse(b)
	}
	return &BranchListResponse{Branches: responses, Total: len(responses)}
}
