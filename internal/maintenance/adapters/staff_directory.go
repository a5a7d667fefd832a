package adapters

import (
	"context"
	"errors"

	"fieldpos/internal/sentinel"
	staffmodels "fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
)

// staffFinder is the slice of the staff store this adapter needs.
type staffFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*staffmodels.Staff, error)
}

// StaffDirectory adapts the staff store to the maintenance service's
// technician check.
type StaffDirectory struct {
	staff staffFinder
}

func NewStaffDirectory(staff staffFinder) *StaffDirectory {
	return &StaffDirectory{staff: staff}
}

// IsTechnician reports whether the staff member is an active technician of
// the tenant. Missing staff count as no, not as an error.
func (d *StaffDirectory) IsTechnician(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (bool, error) {
	member, err := d.staff.FindByTenantAndID(ctx, tenantID, staffID)
	switch {
	case err == nil:
		return member.Role == id.RoleTechnician && member.IsActive(), nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
