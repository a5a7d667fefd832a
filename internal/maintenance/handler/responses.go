package handler

import (
	"time"

	"fieldpos/internal/maintenance/models"
)

// HTTP Response DTOs - contain JSON tags for API serialization.
// Contract and visit dates render as YYYY-MM-DD; timestamps stay RFC 3339.

type ContractItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SerialNo    string `json:"serial_no,omitempty"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

type VisitResponse struct {
	ID            string     `json:"id"`
	ContractID    string     `json:"contract_id"`
	BranchID      string     `json:"branch_id"`
	Sequence      int        `json:"sequence"`
	ScheduledDate string     `json:"scheduled_date"`
	Status        string     `json:"status"`
	TechnicianID  string     `json:"technician_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Report        string     `json:"report,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ContractResponse struct {
	ID           string                 `json:"id"`
	BranchID     string                 `json:"branch_id"`
	CustomerID   string                 `json:"customer_id"`
	SaleID       string                 `json:"sale_id,omitempty"`
	TechnicianID string                 `json:"technician_id,omitempty"`
	ContractNo   string                 `json:"contract_no"`
	Frequency    string                 `json:"frequency"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	Status       string                 `json:"status"`
	TotalVisits  int                    `json:"total_visits"`
	RenewalCount int                    `json:"renewal_count"`
	Notes        string                 `json:"notes,omitempty"`
	Items        []ContractItemResponse `json:"items,omitempty"`
	Visits       []VisitResponse        `json:"visits,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ContractListResponse pages contract summaries; list rows carry neither
// items nor visits.
type ContractListResponse struct {
	Contracts []ContractResponse `json:"contracts"`
	Total     int                `json:"total"`
}

type VisitListResponse struct {
	Visits []VisitResponse `json:"visits"`
	Total  int             `json:"total"`
}

func toContractItemResponse(item *models.ContractItem) ContractItemResponse {
	return ContractItemResponse{
		ID:          item.ID.String(),
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductName,
		SerialNo:    item.SerialNo,
		Quantity:    item.Quantity,
		Notes:       item.Notes,
	}
}

func toVisitResponse(visit *models.Visit) VisitResponse {
	resp := VisitResponse{
		ID:            visit.ID.String(),
		ContractID:    visit.ContractID.String(),
		BranchID:      visit.BranchID.String(),
		Sequence:      visit.Sequence,
		ScheduledDate: visit.ScheduledDate.Format(dateFormat),
		Status:        string(visit.Status),
		CompletedAt:   visit.CompletedAt,
		Report:        visit.Report,
		CreatedAt:     visit.CreatedAt,
	}
	if !visit.TechnicianID.IsNil() {
		resp.TechnicianID = visit.TechnicianID.String()
	}
	return resp
}

func toContractResponse(contract *models.Contract) ContractResponse {
	resp := ContractResponse{
		ID:           contract.ID.String(),
		BranchID:     contract.BranchID.String(),
		CustomerID:   contract.CustomerID.String(),
		ContractNo:   contract.ContractNo,
		Frequency:    string(contract.Frequency),
		StartDate:    contract.StartDate.Format(dateFormat),
		EndDate:      contract.EndDate.Format(dateFormat),
		Status:       string(contract.Status),
		TotalVisits:  contract.TotalVisits,
		RenewalCount: contract.RenewalCount,
		Notes:        contract.Notes,
		CreatedAt:    contract.CreatedAt,
	}
	if contract.HasSale() {
		resp.SaleID = contract.SaleID.String()
	}
	if !contract.TechnicianID.IsNil() {
		resp.TechnicianID = contract.TechnicianID.String()
	}
	for _, item := range contract.Items {
		resp.Items = append(resp.Items, toContractItemResponse(item))
	}
	for _, visit := range contract.Visits {
		resp.Visits = append(resp.Visits, toVisitResponse(visit))
	}
	return resp
}

func toContractListResponse(contracts []*models.Contract, total int) ContractListResponse {
	resp := ContractListResponse{
		Contracts: make([]ContractResponse, 0, len(contracts)),
		Total:     total,
	}
	for _, contract := range contracts {
		resp.Contracts = append(resp.Contracts, toContractResponse(contract))
	}
	return resp
}

func toVisitListResponse(visits []*models.Visit, total int) VisitListResponse {
	resp := VisitListResponse{
		Visits: make([]VisitResponse, 0, len(visits)),
		Total:  total,
	}
	for _, visit := range visits {
		resp.Visits = append(resp.Visits, toVisitResponse(visit))
	}
	return resp
}
