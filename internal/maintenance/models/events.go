package models

import (
	"time"

	id "fieldpos/pkg/domain"
)

// Domain events capture what happened in the maintenance domain.
// These are pure data structures with no behavior - the service layer
// publishes them on the event stream after the transaction commits.

// ContractCreated is emitted when a maintenance contract is booked.
type ContractCreated struct {
	ContractID  id.ContractID `json:"contract_id"`
	TenantID    id.TenantID   `json:"tenant_id"`
	BranchID    id.BranchID   `json:"branch_id"`
	CustomerID  id.CustomerID `json:"customer_id"`
	ContractNo  string        `json:"contract_no"`
	Frequency   Frequency     `json:"frequency"`
	TotalVisits int           `json:"total_visits"`
}

// ContractRenewed is emitted when a contract moves onto a new period.
type ContractRenewed struct {
	ContractID   id.ContractID `json:"contract_id"`
	TenantID     id.TenantID   `json:"tenant_id"`
	ContractNo   string        `json:"contract_no"`
	RenewalCount int           `json:"renewal_count"`
	TotalVisits  int           `json:"total_visits"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
}

// ContractExpired is emitted by the expiry sweep.
type ContractExpired struct {
	ContractID      id.ContractID `json:"contract_id"`
	TenantID        id.TenantID   `json:"tenant_id"`
	ContractNo      string        `json:"contract_no"`
	EndDate         time.Time     `json:"end_date"`
	CancelledVisits int           `json:"cancelled_visits"`
}

// ContractCancelled is emitted when a contract is terminated early.
type ContractCancelled struct {
	ContractID      id.ContractID `json:"contract_id"`
	TenantID        id.TenantID   `json:"tenant_id"`
	ContractNo      string        `json:"contract_no"`
	CancelledVisits int           `json:"cancelled_visits"`
}

// VisitCompleted is emitted when a technician closes out a visit.
type VisitCompleted struct {
	VisitID      id.VisitID    `json:"visit_id"`
	ContractID   id.ContractID `json:"contract_id"`
	TenantID     id.TenantID   `json:"tenant_id"`
	TechnicianID id.StaffID    `json:"technician_id"`
	Sequence     int           `json:"sequence"`
}
