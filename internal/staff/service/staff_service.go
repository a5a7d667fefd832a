package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"fieldpos/internal/sentinel"
	staffmetrics "fieldpos/internal/staff/metrics"
	"fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/privacy"
	"fieldpos/pkg/requestcontext"
	"fieldpos/pkg/secrets"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// StaffService manages staff accounts and authenticates logins. It also
// implements the tenant context's OwnerProvisioner and StaffCounter, which is
// how tenant onboarding creates the owner account without the tenant package
// importing this one.
type StaffService struct {
	store    StaffStore
	branches BranchDirectory
	logger   *slog.Logger
	metrics  *staffmetrics.Metrics
	tx       StoreTx
}

func NewStaffService(store StaffStore, opts ...Option) *StaffService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &StaffService{
		store:    store,
		branches: cfg.branches,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		tx:       tx,
	}
}

func (s *StaffService) CreateStaff(ctx context.Context, cmd *CreateStaffCommand) (*models.Staff, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var staff *models.Staff
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkBranch(txCtx, cmd.TenantID, cmd.BranchID); err != nil {
			return err
		}

		hash, err := secrets.Hash(cmd.Password)
		if err != nil {
			return err
		}
		st, err := models.NewStaff(models.NewStaffParams{
			ID:           id.StaffID(uuid.New()),
			TenantID:     cmd.TenantID,
			BranchID:     cmd.BranchID,
			Name:         cmd.Name,
			Email:        cmd.Email,
			Phone:        cmd.Phone,
			PasswordHash: hash,
			Role:         cmd.Role,
		}, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}

		if err := s.store.Create(txCtx, st); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "email already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff member")
		}
		staff = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementStaffCreated()
	return staff, nil
}

func (s *StaffService) GetStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireStaffID(staffID); err != nil {
		return nil, err
	}
	staff, err := s.store.FindByTenantAndID(ctx, tenantID, staffID)
	if err != nil {
		return nil, wrapStaffErr(err)
	}
	return staff, nil
}

// ListStaff pages through a tenant's staff. Returns the page and the total
// match count.
func (s *StaffService) ListStaff(ctx context.Context, tenantID id.TenantID, filter models.StaffFilter) ([]*models.Staff, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, dErrors.New(dErrors.CodeValidation, "unknown staff status")
	}
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, 0, dErrors.New(dErrors.CodeValidation, "unknown role")
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

	staff, total, err := s.store.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list staff")
	}
	return staff, total, nil
}

func (s *StaffService) UpdateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID, cmd *UpdateStaffCommand) (*models.Staff, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireStaffID(staffID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var staff *models.Staff
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		st, err := s.store.FindByTenantAndID(txCtx, tenantID, staffID)
		if err != nil {
			return wrapStaffErr(err)
		}
		if cmd.IsEmpty() {
			staff = st
			return nil
		}
		now := requestcontext.Now(txCtx)

		if cmd.Name != nil || cmd.Phone != nil {
			name, phone := st.Name, st.Phone
			if cmd.Name != nil {
				name = *cmd.Name
			}
			if cmd.Phone != nil {
				phone = *cmd.Phone
			}
			if err := st.UpdateProfile(name, phone, now); err != nil {
				return err
			}
		}

		if cmd.Role != nil || cmd.BranchID != nil {
			role, branchID := st.Role, st.BranchID
			if cmd.Role != nil {
				role = *cmd.Role
			}
			if cmd.BranchID != nil {
				branchID = *cmd.BranchID
			}
			if cmd.BranchID != nil && !branchID.IsNil() {
				if err := s.checkBranch(txCtx, tenantID, branchID); err != nil {
					return err
				}
			}
			if err := st.Reassign(role, branchID, now); err != nil {
				// Role/branch coupling failures read as bad input, not as a
				// broken entity.
				var dErr *dErrors.Error
				if errors.As(err, &dErr) && dErr.Code == dErrors.CodeInvariantViolation {
					return dErrors.New(dErrors.CodeValidation, dErr.Message)
				}
				return err
			}
		}

		if err := s.store.Update(txCtx, st); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update staff member")
		}
		staff = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *StaffService) DeactivateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireStaffID(staffID); err != nil {
		return nil, err
	}
	var staff *models.Staff
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		st, err := s.store.FindByTenantAndID(txCtx, tenantID, staffID)
		if err != nil {
			return wrapStaffErr(err)
		}

		if err := st.Deactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "staff member is already inactive")
			}
			return err
		}

		if err := s.store.Update(txCtx, st); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update staff member")
		}
		staff = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *StaffService) ReactivateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireStaffID(staffID); err != nil {
		return nil, err
	}
	var staff *models.Staff
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		st, err := s.store.FindByTenantAndID(txCtx, tenantID, staffID)
		if err != nil {
			return wrapStaffErr(err)
		}

		if err := st.Reactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "staff member is already active")
			}
			return err
		}

		if err := s.store.Update(txCtx, st); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update staff member")
		}
		staff = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// Authenticate verifies login credentials and returns the account. Unknown
// emails and wrong passwords are indistinguishable to the caller; a disabled
// account is reported as such only after the password checked out.
func (s *StaffService) Authenticate(ctx context.Context, emailAddr, password string) (*models.Staff, error) {
	if emailAddr == "" || password == "" {
		s.incrementLoginFailures()
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	staff, err := s.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementLoginFailures()
			s.warnLogin(ctx, "unknown email")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "login lookup failed")
	}

	if err := secrets.Verify(password, staff.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.incrementLoginFailures()
			s.warnLogin(ctx, "wrong password")
		}
		return nil, err
	}

	if !staff.CanLogin() {
		s.incrementLoginFailures()
		s.warnLogin(ctx, "account disabled")
		return nil, dErrors.New(dErrors.CodeForbidden, "account is disabled")
	}

	s.incrementLoginSuccess()
	return staff, nil
}

// ProvisionOwner creates the owner account during tenant onboarding. The
// caller runs it inside the onboarding transaction, so ctx already carries
// the transaction and no StoreTx boundary is opened here.
func (s *StaffService) ProvisionOwner(ctx context.Context, tenantID id.TenantID, name, email, password string) (id.StaffID, error) {
	if err := requireTenantID(tenantID); err != nil {
		return id.StaffID{}, err
	}
	hash, err := secrets.Hash(password)
	if err != nil {
		return id.StaffID{}, err
	}

	owner, err := models.NewStaff(models.NewStaffParams{
		ID:           id.StaffID(uuid.New()),
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         id.RoleOwner,
	}, requestcontext.Now(ctx))
	if err != nil {
		return id.StaffID{}, err
	}

	if err := s.store.Create(ctx, owner); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return id.StaffID{}, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return id.StaffID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create owner account")
	}

	s.incrementStaffCreated()
	return owner.ID, nil
}

// CountByTenant implements the tenant context's StaffCounter.
func (s *StaffService) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	return s.store.CountByTenant(ctx, tenantID)
}

// checkBranch validates a branch reference against the tenant. A nil branch
// passes; whether the role may go branchless is the model's concern.
func (s *StaffService) checkBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) error {
	if branchID.IsNil() || s.branches == nil {
		return nil
	}
	exists, err := s.branches.BranchExists(ctx, tenantID, branchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify branch")
	}
	if !exists {
		return dErrors.NewValidation("validation failed", map[string]string{"branch_id": "branch does not exist"})
	}
	return nil
}

func (s *StaffService) incrementStaffCreated() {
	if s.metrics != nil {
		s.metrics.IncrementStaffCreated()
	}
}

func (s *StaffService) incrementLoginSuccess() {
	if s.metrics != nil {
		s.metrics.IncrementLoginSuccess()
	}
}

func (s *StaffService) incrementLoginFailures() {
	if s.metrics != nil {
		s.metrics.IncrementLoginFailures()
	}
}

// warnLogin records a rejected login. The email never reaches the log; the
// client IP is anonymized before it does.
func (s *StaffService) warnLogin(ctx context.Context, reason string) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, "login rejected",
		"reason", reason,
		"client_ip", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	)
}
