package adapters

import (
	"context"
	"errors"

	"fieldpos/internal/sentinel"
	tenantmodels "fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
)

// branchFinder is the slice of the tenant branch store this adapter needs.
// Defined locally so staff wiring does not depend on the tenant service
// package.
type branchFinder interface {
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*tenantmodels.Branch, error)
}

// BranchDirectory adapts the tenant branch store to the staff service's
// branch-membership check.
type BranchDirectory struct {
	branches branchFinder
}

func NewBranchDirectory(branches branchFinder) *BranchDirectory {
	return &BranchDirectory{branches: branches}
}

// BranchExists reports whether the branch exists under the tenant. Only
// infrastructure failures surface as errors.
func (d *BranchDirectory) BranchExists(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (bool, error) {
	_, err := d.branches.FindByTenantAndID(ctx, tenantID, branchID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
