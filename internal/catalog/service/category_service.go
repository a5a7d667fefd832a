package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	catalogmetrics "fieldpos/internal/catalog/metrics"
	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// CategoryService manages a tenant's product categories.
type CategoryService struct {
	categories CategoryStore
	metrics    *catalogmetrics.Metrics
	tx         StoreTx
}

func NewCategoryService(categories CategoryStore, opts ...Option) *CategoryService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &CategoryService{
		categories: categories,
		metrics:    cfg.metrics,
		tx:         tx,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, cmd *CreateCategoryCommand) (*models.Category, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	category, err := models.NewCategory(id.CategoryID(uuid.New()), cmd.TenantID, cmd.Name, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "category name already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create category")
	}
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	category, err := s.categories.FindByTenantAndID(ctx, tenantID, categoryID)
	if err != nil {
		return nil, wrapCategoryErr(err)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, tenantID id.TenantID) ([]*models.Category, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID, cmd *UpdateCategoryCommand) (*models.Category, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.categories.FindByTenantAndID(txCtx, tenantID, categoryID)
		if err != nil {
			return wrapCategoryErr(err)
		}
		if cmd.IsEmpty() {
			category = c
			return nil
		}

		if err := c.Rename(*cmd.Name, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.categories.Update(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "category name already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update category")
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeactivateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error) {
	return s.setCategoryStatus(ctx, tenantID, categoryID, false)
}

func (s *CategoryService) ReactivateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error) {
	return s.setCategoryStatus(ctx, tenantID, categoryID, true)
}

func (s *CategoryService) setCategoryStatus(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID, active bool) (*models.Category, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	var category *models.Category
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.categories.FindByTenantAndID(txCtx, tenantID, categoryID)
		if err != nil {
			return wrapCategoryErr(err)
		}

		now := requestcontext.Now(txCtx)
		if active {
			err = c.Reactivate(now)
		} else {
			err = c.Deactivate(now)
		}
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				if active {
					return dErrors.New(dErrors.CodeConflict, "category is already active")
				}
				return dErrors.New(dErrors.CodeConflict, "category is already inactive")
			}
			return err
		}

		if err := s.categories.Update(txCtx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update category")
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}
