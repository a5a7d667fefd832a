package service

import (
	"context"

	"github.com/google/uuid"

	tenantmetrics "fieldpos/internal/tenant/metrics"
	"fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	defaultBranchName = "Main Branch"
)

// TenantService orchestrates tenant onboarding and lifecycle management.
type TenantService struct {
	tenants      TenantStore
	branches     BranchStore
	staffCounter StaffCounter
	owners       OwnerProvisioner
	emitter      *eventEmitter
	metrics      *tenantmetrics.Metrics
	gate         *Gate
	tx           StoreTx
}

func NewTenantService(tenants TenantStore, branches BranchStore, opts ...Option) *TenantService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &TenantService{
		tenants:      tenants,
		branches:     branches,
		staffCounter: cfg.staffCounter,
		owners:       cfg.owners,
		emitter:      newEventEmitter(cfg.logger, cfg.publisher),
		metrics:      cfg.metrics,
		gate:         cfg.gate,
		tx:           tx,
	}
}

// CreateTenantResult carries everything provisioned for a new business.
type CreateTenantResult struct {
	Tenant  *models.Tenant
	Branch  *models.Branch
	OwnerID id.StaffID
}

// CreateTenant onboards a business: the tenant record, its default branch,
// and the owner account are created in one transaction so a failure at any
// step leaves nothing behind.
func (s *TenantService) CreateTenant(ctx context.Context, cmd *CreateTenantCommand) (*CreateTenantResult, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if s.owners == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "owner provisioning is not configured")
	}

	var result CreateTenantResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		tenant, err := models.NewTenant(id.TenantID(uuid.New()), cmd.Name, cmd.Phone, cmd.Address, now)
		if err != nil {
			return err
		}
		if err := s.tenants.Create(txCtx, tenant); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
		}

		branchName := cmd.BranchName
		if branchName == "" {
			branchName = defaultBranchName
		}
		branch, err := models.NewBranch(id.BranchID(uuid.New()), tenant.ID, branchName, cmd.Phone, cmd.Address, now)
		if err != nil {
			return err
		}
		if err := s.branches.Create(txCtx, branch); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create default branch")
		}

		ownerID, err := s.owners.ProvisionOwner(txCtx, tenant.ID, cmd.OwnerName, cmd.OwnerEmail, cmd.OwnerPassword)
		if err != nil {
			return err
		}

		result = CreateTenantResult{Tenant: tenant, Branch: branch, OwnerID: ownerID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementTenantsCreated()
	s.emitter.emit(ctx, "tenant.created", result.Tenant.ID.String(), result.Tenant.ID, models.TenantCreated{
		TenantID: result.Tenant.ID,
		Name:     result.Tenant.Name,
		OwnerID:  result.OwnerID,
		BranchID: result.Branch.ID,
	})
	return &result, nil
}

// GetTenant returns tenant metadata with branch and staff counts.
func (s *TenantService) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.TenantDetails, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err)
	}

	branchCount, err := s.branches.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count branches")
	}

	staffCount := 0
	if s.staffCounter != nil {
		staffCount, err = s.staffCounter.CountByTenant(ctx, tenantID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count staff")
		}
	}

	return &models.TenantDetails{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Phone:       tenant.Phone,
		Address:     tenant.Address,
		Status:      tenant.Status,
		CreatedAt:   tenant.CreatedAt,
		UpdatedAt:   tenant.UpdatedAt,
		BranchCount: branchCount,
		StaffCount:  staffCount,
	}, nil
}

// ListTenants pages through tenants for the admin dashboard.
// Returns the page and the total match count.
func (s *TenantService) ListTenants(ctx context.Context, filter models.TenantFilter) ([]*models.Tenant, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, dErrors.New(dErrors.CodeValidation, "unknown tenant status")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tenants, total, err := s.tenants.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	return tenants, total, nil
}

// UpdateTenant applies a partial profile update.
func (s *TenantService) UpdateTenant(ctx context.Context, tenantID id.TenantID, cmd *UpdateTenantCommand) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tenants.FindByID(txCtx, tenantID)
		if err != nil {
			return wrapTenantErr(err)
		}
		if cmd.IsEmpty() {
			tenant = t
			return nil
		}

		name, phone, address := t.Name, t.Phone, t.Address
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if cmd.Phone != nil {
			phone = *cmd.Phone
		}
		if cmd.Address != nil {
			address = *cmd.Address
		}
		if err := t.UpdateProfile(name, phone, address, requestcontext.Now(txCtx)); err != nil {
			return err
		}

		if err := s.tenants.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tenant")
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeactivateTenant suspends a tenant. The gate cache entry is invalidated so
// the suspension takes effect on the next request, not the next cache expiry.
func (s *TenantService) DeactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tenants.FindByID(txCtx, tenantID)
		if err != nil {
			return wrapTenantErr(err)
		}

		if err := t.Deactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "tenant is already inactive")
			}
			return err
		}

		if err := s.tenants.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tenant")
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGate(ctx, tenant.ID)
	s.emitter.emit(ctx, "tenant.deactivated", tenant.ID.String(), tenant.ID, models.TenantDeactivated{TenantID: tenant.ID})
	return tenant, nil
}

// ReactivateTenant restores a suspended tenant.
func (s *TenantService) ReactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tenants.FindByID(txCtx, tenantID)
		if err != nil {
			return wrapTenantErr(err)
		}

		if err := t.Reactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "tenant is already active")
			}
			return err
		}

		if err := s.tenants.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tenant")
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGate(ctx, tenant.ID)
	s.emitter.emit(ctx, "tenant.reactivated", tenant.ID.String(), tenant.ID, models.TenantReactivated{TenantID: tenant.ID})
	return tenant, nil
}

func (s *TenantService) incrementTenantsCreated() {
	if s.metrics != nil {
		s.metrics.IncrementTenantsCreated()
	}
}

func (s *TenantService) invalidateGate(ctx context.Context, tenantID id.TenantID) {
	if s.gate != nil {
		s.gate.Invalidate(ctx, tenantID)
	}
}
