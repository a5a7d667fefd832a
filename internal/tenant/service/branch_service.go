package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fieldpos/internal/sentinel"
	tenantmetrics "fieldpos/internal/tenant/metrics"
	"fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// BranchService manages a tenant's branches. Every method is tenant-scoped:
// a branch is only visible through its owning tenant.
type BranchService struct {
	branches BranchStore
	tenants  TenantStore
	emitter  *eventEmitter
	metrics  *tenantmetrics.Metrics
	tx       StoreTx
}

func NewBranchService(branches BranchStore, tenants TenantStore, opts ...Option) *BranchService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &BranchService{
		branches: branches,
		tenants:  tenants,
		emitter:  newEventEmitter(cfg.logger, cfg.publisher),
		metrics:  cfg.metrics,
		tx:       tx,
	}
}

func (s *BranchService) CreateBranch(ctx context.Context, cmd *CreateBranchCommand) (*models.Branch, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var branch *models.Branch
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		tenant, err := s.tenants.FindByID(txCtx, cmd.TenantID)
		if err != nil {
			return wrapTenantErr(err)
		}
		if !tenant.IsActive() {
			return dErrors.New(dErrors.CodeConflict, "cannot add a branch to an inactive tenant")
		}

		b, err := models.NewBranch(id.BranchID(uuid.New()), tenant.ID, cmd.Name, cmd.Phone, cmd.Address, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.branches.Create(txCtx, b); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "branch name already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create branch")
		}
		branch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementBranchesCreated()
	s.emitter.emit(ctx, "branch.created", branch.ID.String(), branch.TenantID, models.BranchCreated{
		TenantID: branch.TenantID,
		BranchID: branch.ID,
		Name:     branch.Name,
	})
	return branch, nil
}

func (s *BranchService) GetBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireBranchID(branchID); err != nil {
		return nil, err
	}
	branch, err := s.branches.FindByTenantAndID(ctx, tenantID, branchID)
	if err != nil {
		return nil, wrapBranchErr(err)
	}
	return branch, nil
}

func (s *BranchService) ListBranches(ctx context.Context, tenantID id.TenantID) ([]*models.Branch, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	branches, err := s.branches.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches")
	}
	return branches, nil
}

func (s *BranchService) UpdateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID, cmd *UpdateBranchCommand) (*models.Branch, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireBranchID(branchID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var branch *models.Branch
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.branches.FindByTenantAndID(txCtx, tenantID, branchID)
		if err != nil {
			return wrapBranchErr(err)
		}
		if cmd.IsEmpty() {
			branch = b
			return nil
		}

		name, phone, address := b.Name, b.Phone, b.Address
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if cmd.Phone != nil {
			phone = *cmd.Phone
		}
		if cmd.Address != nil {
			address = *cmd.Address
		}
		if err := b.UpdateProfile(name, phone, address, requestcontext.Now(txCtx)); err != nil {
			return err
		}

		if err := s.branches.Update(txCtx, b); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "branch name already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update branch")
		}
		branch = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

func (s *BranchService) DeactivateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireBranchID(branchID); err != nil {
		return nil, err
	}
	var branch *models.Branch
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.branches.FindByTenantAndID(txCtx, tenantID, branchID)
		if err != nil {
			return wrapBranchErr(err)
		}

		if err := b.Deactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "branch is already inactive")
			}
			return err
		}

		if err := s.branches.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update branch")
		}
		branch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.emit(ctx, "branch.deactivated", branch.ID.String(), branch.TenantID, models.BranchDeactivated{
		TenantID: branch.TenantID,
		BranchID: branch.ID,
	})
	return branch, nil
}

func (s *BranchService) ReactivateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireBranchID(branchID); err != nil {
		return nil, err
	}
	var branch *models.Branch
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.branches.FindByTenantAndID(txCtx, tenantID, branchID)
		if err != nil {
			return wrapBranchErr(err)
		}

		if err := b.Reactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "branch is already active")
			}
			return err
		}

		if err := s.branches.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update branch")
		}
		branch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return branch, nil
}

func (s *BranchService) incrementBranchesCreated() {
	if s.metrics != nil {
		s.metrics.IncrementBranchesCreated()
	}
}
