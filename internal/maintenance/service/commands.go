package service

import (
	"time"

	"fieldpos/internal/maintenance/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

const (
	// maxContractItems bounds the equipment list of one agreement; the
	// HTTP layer enforces the same cap before decoding item arrays.
	maxContractItems = 50
	maxSerialLength  = 120
	maxNotesLength   = 2000
	// maxScheduleVisits bounds how many visits one period may generate,
	// so a daily contract over a decade cannot flood the visits table.
	maxScheduleVisits = 1000
)

// ContractItemLine is one requested piece of covered equipment, before the
// catalog snapshot.
type ContractItemLine struct {
	ProductID id.ProductID
	SerialNo  string
	Quantity  int
	Notes     string
}

// CreateContractCommand contains validated input for opening a maintenance
// contract. TotalVisits is never part of the command: the service derives
// it from the frequency and period.
type CreateContractCommand struct {
	TenantID     id.TenantID
	BranchID     id.BranchID
	CustomerID   id.CustomerID
	SaleID       id.SaleID  // optional; links the register sale the contract was sold on
	TechnicianID id.StaffID // optional default technician for the schedule
	Frequency    models.Frequency
	StartDate    time.Time
	EndDate      time.Time
	Notes        string
	CreatedBy    id.StaffID
	Items        []ContractItemLine
}

func (c *CreateContractCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.BranchID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "branch_id is required")
	}
	if c.CustomerID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "customer_id is required")
	}
	if c.CreatedBy.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "creator is required")
	}
	if !c.Frequency.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown frequency")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start_date and end_date are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return dErrors.NewValidation("validation failed", map[string]string{
			"end_date": "end_date cannot be before start_date",
		})
	}
	if len(c.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	if len(c.Items) > maxContractItems {
		return dErrors.New(dErrors.CodeValidation, "too many items in one contract")
	}
	for _, line := range c.Items {
		if line.ProductID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "every item needs a product_id")
		}
		if line.Quantity <= 0 {
			return dErrors.New(dErrors.CodeValidation, "every item needs a positive quantity")
		}
		if len(line.SerialNo) > maxSerialLength {
			return dErrors.New(dErrors.CodeValidation, "serial number is too long")
		}
		if len(line.Notes) > maxNotesLength {
			return dErrors.New(dErrors.CodeValidation, "item notes are too long")
		}
	}
	if len(c.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes are too long")
	}
	return nil
}

// RenewContractCommand contains validated input for renewing a contract
// into a new period. A zero StartDate defaults to the day after the current
// period ends.
type RenewContractCommand struct {
	TenantID   id.TenantID
	ContractID id.ContractID
	StartDate  time.Time
	EndDate    time.Time
	RenewedBy  id.StaffID
}

func (c *RenewContractCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.ContractID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "contract_id is required")
	}
	if c.RenewedBy.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "renewer is required")
	}
	if c.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "end_date is required")
	}
	if !c.StartDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return dErrors.NewValidation("validation failed", map[string]string{
			"end_date": "end_date cannot be before start_date",
		})
	}
	return nil
}

// CompleteVisitCommand contains validated input for a technician closing
// out a visit.
type CompleteVisitCommand struct {
	TenantID     id.TenantID
	VisitID      id.VisitID
	TechnicianID id.StaffID
	Report       string
}

func (c *CompleteVisitCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.VisitID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "visit_id is required")
	}
	if c.TechnicianID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "technician is required")
	}
	if len(c.Report) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "report is too long")
	}
	return nil
}
