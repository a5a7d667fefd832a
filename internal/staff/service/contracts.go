package service

import (
	"context"
	"errors"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// StaffStore defines the persistence contract for staff accounts.
// Email lookups are case-insensitive; implementations fold before comparing.
type StaffStore interface {
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.StaffFilter) ([]*models.Staff, int, error)
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

// BranchDirectory answers whether a branch exists under a tenant. Staff
// assignment validates branch references through it; the tenant context
// provides the implementation.
type BranchDirectory interface {
	BranchExists(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (bool, error)
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireStaffID(staffID id.StaffID) error {
	if staffID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "staff ID required")
	}
	return nil
}

func wrapStaffErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "staff member not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "staff lookup failed")
}
