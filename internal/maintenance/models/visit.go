package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "scheduled"
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusCancelled VisitStatus = "cancelled"
	VisitStatusMissed    VisitStatus = "missed"
)

func (s VisitStatus) Valid() bool {
	switch s {
	case VisitStatusScheduled, VisitStatusCompleted, VisitStatusCancelled, VisitStatusMissed:
		return true
	}
	return false
}

// Visit is one scheduled occurrence under a contract. Sequence numbers run
// from 1 and keep counting across renewals.
type Visit struct {
	ID            id.VisitID
	ContractID    id.ContractID
	TenantID      id.TenantID
	BranchID      id.BranchID
	Sequence      int
	ScheduledDate time.Time
	Status        VisitStatus
	TechnicianID  id.StaffID // nil until assigned
	CompletedAt   *time.Time
	Report        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewVisit(visitID id.VisitID, contractID id.ContractID, tenantID id.TenantID, branchID id.BranchID, sequence int, scheduledDate time.Time, technicianID id.StaffID, now time.Time) (*Visit, error) {
	if contractID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit requires a contract")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit requires a tenant")
	}
	if branchID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit requires a branch")
	}
	if sequence < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit sequence starts at 1")
	}
	return &Visit{
		ID:            visitID,
		ContractID:    contractID,
		TenantID:      tenantID,
		BranchID:      branchID,
		Sequence:      sequence,
		ScheduledDate: scheduledDate,
		Status:        VisitStatusScheduled,
		TechnicianID:  technicianID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (v *Visit) IsScheduled() bool {
	return v.Status == VisitStatusScheduled
}

// IsAssigned reports whether a technician owns this visit.
func (v *Visit) IsAssigned() bool {
	return !v.TechnicianID.IsNil()
}

// Complete closes out a scheduled visit with the technician's report.
func (v *Visit) Complete(report string, now time.Time) error {
	if v.Status != VisitStatusScheduled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only scheduled visits can be completed")
	}
	v.Status = VisitStatusCompleted
	v.CompletedAt = &now
	v.Report = report
	v.UpdatedAt = now
	return nil
}

// Cancel drops a scheduled visit.
func (v *Visit) Cancel(now time.Time) error {
	if v.Status != VisitStatusScheduled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only scheduled visits can be cancelled")
	}
	v.Status = VisitStatusCancelled
	v.UpdatedAt = now
	return nil
}

// Miss marks a scheduled visit whose date passed without completion.
func (v *Visit) Miss(now time.Time) error {
	if v.Status != VisitStatusScheduled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only scheduled visits can be missed")
	}
	v.Status = VisitStatusMissed
	v.UpdatedAt = now
	return nil
}

// Reschedule moves a scheduled visit to a new date. The service checks the
// date stays inside the contract period.
func (v *Visit) Reschedule(date time.Time, now time.Time) error {
	if v.Status != VisitStatusScheduled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only scheduled visits can be rescheduled")
	}
	v.ScheduledDate = date
	v.UpdatedAt = now
	return nil
}

// Assign hands a scheduled visit to a technician.
func (v *Visit) Assign(technicianID id.StaffID, now time.Time) error {
	if v.Status != VisitStatusScheduled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only scheduled visits can be assigned")
	}
	if technicianID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "assignment requires a technician")
	}
	v.TechnicianID = technicianID
	v.UpdatedAt = now
	return nil
}

// VisitFilter narrows and pages visit listings. From and To bound
// ScheduledDate inclusively; zero values leave the bound open.
type VisitFilter struct {
	ContractID   id.ContractID
	TechnicianID id.StaffID
	BranchID     id.BranchID
	Status       VisitStatus
	From         time.Time
	To           time.Time
	Limit        int
	Offset       int
}
