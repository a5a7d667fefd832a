package handler

import (
	"fmt"
	"strings"
	"time"

	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/maintenance/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/validation"
	"fieldpos/pkg/requestcontext"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

// dateFormat is the wire format for contract and visit dates. Maintenance
// scheduling works in whole days; no endpoint accepts a time of day.
const dateFormat = "2006-01-02"

type ContractItemRequest struct {
	ProductID string `json:"product_id"`
	SerialNo  string `json:"serial_no"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// CreateContractRequest opens a maintenance contract. The visit count is
// derived from frequency and period, never supplied by the caller.
type CreateContractRequest struct {
	BranchID     string                `json:"branch_id"`
	CustomerID   string                `json:"customer_id"`
	SaleID       string                `json:"sale_id"`
	TechnicianID string                `json:"technician_id"`
	Frequency    string                `json:"frequency"`
	StartDate    string                `json:"start_date"`
	EndDate      string                `json:"end_date"`
	Notes        string                `json:"notes"`
	Items        []ContractItemRequest `json:"items"`
}

func (r *CreateContractRequest) Normalize() {
	if r == nil {
		return
	}
	r.BranchID = strings.TrimSpace(r.BranchID)
	r.CustomerID = strings.TrimSpace(r.CustomerID)
	r.SaleID = strings.TrimSpace(r.SaleID)
	r.TechnicianID = strings.TrimSpace(r.TechnicianID)
	r.Frequency = strings.ToLower(strings.TrimSpace(r.Frequency))
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	r.Notes = strings.TrimSpace(r.Notes)
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
		r.Items[i].SerialNo = strings.TrimSpace(r.Items[i].SerialNo)
		r.Items[i].Notes = strings.TrimSpace(r.Items[i].Notes)
		if r.Items[i].Quantity == 0 {
			r.Items[i].Quantity = 1
		}
	}
}

func (r *CreateContractRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if r.BranchID == "" {
		fields["branch_id"] = "branch_id is required"
	} else if _, err := id.ParseBranchID(r.BranchID); err != nil {
		fields["branch_id"] = "invalid branch id"
	}
	if r.CustomerID == "" {
		fields["customer_id"] = "customer_id is required"
	} else if _, err := id.ParseCustomerID(r.CustomerID); err != nil {
		fields["customer_id"] = "invalid customer id"
	}
	if r.SaleID != "" {
		if _, err := id.ParseSaleID(r.SaleID); err != nil {
			fields["sale_id"] = "invalid sale id"
		}
	}
	if r.TechnicianID != "" {
		if _, err := id.ParseStaffID(r.TechnicianID); err != nil {
			fields["technician_id"] = "invalid technician id"
		}
	}
	if !models.Frequency(r.Frequency).Valid() {
		fields["frequency"] = "unknown frequency"
	}
	start, startErr := time.Parse(dateFormat, r.StartDate)
	if startErr != nil {
		fields["start_date"] = "invalid start_date, expected YYYY-MM-DD"
	}
	end, endErr := time.Parse(dateFormat, r.EndDate)
	if endErr != nil {
		fields["end_date"] = "invalid end_date, expected YYYY-MM-DD"
	} else if startErr == nil && end.Before(start) {
		fields["end_date"] = "end_date cannot be before start_date"
	}
	if len(r.Items) == 0 {
		fields["items"] = "at least one item is required"
	} else if len(r.Items) > validation.MaxContractItems {
		fields["items"] = "too many items in one contract"
	}
	for i, item := range r.Items {
		if item.ProductID == "" {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product_id is required"
		} else if _, err := id.ParseProductID(item.ProductID); err != nil {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "invalid product id"
		}
		if item.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be positive"
		}
		if len(item.SerialNo) > validation.MaxSerialNoLength {
			fields[fmt.Sprintf("items[%d].serial_no", i)] = "serial number is too long"
		}
		if len(item.Notes) > validation.MaxNotesLength {
			fields[fmt.Sprintf("items[%d].notes", i)] = "item notes are too long"
		}
	}
	if len(r.Notes) > validation.MaxNotesLength {
		fields["notes"] = "notes are too long"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *CreateContractRequest) ToCommand(actor requestcontext.Actor) *service.CreateContractCommand {
	branchID, _ := id.ParseBranchID(r.BranchID)
	customerID, _ := id.ParseCustomerID(r.CustomerID)

	var saleID id.SaleID
	if r.SaleID != "" {
		saleID, _ = id.ParseSaleID(r.SaleID)
	}
	var technicianID id.StaffID
	if r.TechnicianID != "" {
		technicianID, _ = id.ParseStaffID(r.TechnicianID)
	}

	start, _ := time.Parse(dateFormat, r.StartDate)
	end, _ := time.Parse(dateFormat, r.EndDate)

	items := make([]service.ContractItemLine, 0, len(r.Items))
	for _, item := range r.Items {
		productID, _ := id.ParseProductID(item.ProductID)
		items = append(items, service.ContractItemLine{
			ProductID: productID,
			SerialNo:  item.SerialNo,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}

	return &service.CreateContractCommand{
		TenantID:     actor.TenantID,
		BranchID:     branchID,
		CustomerID:   customerID,
		SaleID:       saleID,
		TechnicianID: technicianID,
		Frequency:    models.Frequency(r.Frequency),
		StartDate:    start,
		EndDate:      end,
		Notes:        r.Notes,
		CreatedBy:    actor.StaffID,
		Items:        items,
	}
}

// RenewContractRequest extends a contract into a new period. An absent
// start_date means the new period begins the day after the current one ends.
type RenewContractRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *RenewContractRequest) Normalize() {
	if r == nil {
		return
	}
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *RenewContractRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	var start time.Time
	var startErr error
	if r.StartDate != "" {
		start, startErr = time.Parse(dateFormat, r.StartDate)
		if startErr != nil {
			fields["start_date"] = "invalid start_date, expected YYYY-MM-DD"
		}
	}
	if r.EndDate == "" {
		fields["end_date"] = "end_date is required"
	} else if end, err := time.Parse(dateFormat, r.EndDate); err != nil {
		fields["end_date"] = "invalid end_date, expected YYYY-MM-DD"
	} else if r.StartDate != "" && startErr == nil && end.Before(start) {
		fields["end_date"] = "end_date cannot be before start_date"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

func (r *RenewContractRequest) ToCommand(actor requestcontext.Actor, contractID id.ContractID) *service.RenewContractCommand {
	var start time.Time
	if r.StartDate != "" {
		start, _ = time.Parse(dateFormat, r.StartDate)
	}
	end, _ := time.Parse(dateFormat, r.EndDate)

	return &service.RenewContractCommand{
		TenantID:   actor.TenantID,
		ContractID: contractID,
		StartDate:  start,
		EndDate:    end,
		RenewedBy:  actor.StaffID,
	}
}

// RescheduleVisitRequest moves a visit to a new date.
type RescheduleVisitRequest struct {
	ScheduledDate string `json:"scheduled_date"`
}

func (r *RescheduleVisitRequest) Normalize() {
	if r == nil {
		return
	}
	r.ScheduledDate = strings.TrimSpace(r.ScheduledDate)
}

func (r *RescheduleVisitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ScheduledDate == "" {
		return dErrors.NewValidation("validation failed", map[string]string{
			"scheduled_date": "scheduled_date is required",
		})
	}
	if _, err := time.Parse(dateFormat, r.ScheduledDate); err != nil {
		return dErrors.NewValidation("validation failed", map[string]string{
			"scheduled_date": "invalid scheduled_date, expected YYYY-MM-DD",
		})
	}
	return nil
}

// Date returns the parsed target date. Validate has already checked it.
func (r *RescheduleVisitRequest) Date() time.Time {
	date, _ := time.Parse(dateFormat, r.ScheduledDate)
	return date
}

// AssignTechnicianRequest names the technician for a visit.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

func (r *AssignTechnicianRequest) Normalize() {
	if r == nil {
		return
	}
	r.TechnicianID = strings.TrimSpace(r.TechnicianID)
}

func (r *AssignTechnicianRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.TechnicianID == "" {
		return dErrors.NewValidation("validation failed", map[string]string{
			"technician_id": "technician_id is required",
		})
	}
	if _, err := id.ParseStaffID(r.TechnicianID); err != nil {
		return dErrors.NewValidation("validation failed", map[string]string{
			"technician_id": "invalid technician id",
		})
	}
	return nil
}

// StaffID returns the parsed technician ID. Validate has already checked it.
func (r *AssignTechnicianRequest) StaffID() id.StaffID {
	staffID, _ := id.ParseStaffID(r.TechnicianID)
	return staffID
}

// CompleteVisitRequest closes out a visit with the technician's report.
type CompleteVisitRequest struct {
	Report string `json:"report"`
}

func (r *CompleteVisitRequest) Normalize() {
	if r == nil {
		return
	}
	r.Report = strings.TrimSpace(r.Report)
}

func (r *CompleteVisitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Report) > validation.MaxNotesLength {
		return dErrors.NewValidation("validation failed", map[string]string{
			"report": "report is too long",
		})
	}
	return nil
}

// ToCommand binds the completion to the authenticated actor: the caller is
// the technician of record.
func (r *CompleteVisitRequest) ToCommand(actor requestcontext.Actor, visitID id.VisitID) *service.CompleteVisitCommand {
	return &service.CompleteVisitCommand{
		TenantID:     actor.TenantID,
		VisitID:      visitID,
		TechnicianID: actor.StaffID,
		Report:       r.Report,
	}
}
