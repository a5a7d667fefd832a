package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	catalogmetrics "fieldpos/internal/catalog/metrics"
	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ProductService manages a tenant's products and their stock. Stock moves
// through AdjustStock and through sales; detail updates never touch it.
type ProductService struct {
	products   ProductStore
	categories CategoryStore
	logger     *slog.Logger
	metrics    *catalogmetrics.Metrics
	tx         StoreTx
}

func NewProductService(products ProductStore, categories CategoryStore, opts ...Option) *ProductService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &ProductService{
		products:   products,
		categories: categories,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
		tx:         tx,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, cmd *CreateProductCommand) (*models.Product, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkCategory(txCtx, cmd.TenantID, cmd.CategoryID); err != nil {
			return err
		}

		details := models.ProductDetails{
			CategoryID:        cmd.CategoryID,
			Name:              cmd.Name,
			SKU:               cmd.SKU,
			Barcode:           cmd.Barcode,
			Price:             cmd.Price,
			Cost:              cmd.Cost,
			LowStockThreshold: cmd.LowStockThreshold,
			Maintainable:      cmd.Maintainable,
		}
		p, err := models.NewProduct(id.ProductID(uuid.New()), cmd.TenantID, details, cmd.Stock, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.products.Create(txCtx, p); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "sku already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementProductsCreated()
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireProductID(productID); err != nil {
		return nil, err
	}
	product, err := s.products.FindByTenantAndID(ctx, tenantID, productID)
	if err != nil {
		return nil, wrapProductErr(err)
	}
	return product, nil
}

// LookupProduct resolves a scanned barcode or typed SKU to a product. The
// register uses this on every scan, so misses are routine.
func (s *ProductService) LookupProduct(ctx context.Context, tenantID id.TenantID, code string) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code required")
	}
	product, err := s.products.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, wrapProductErr(err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, tenantID id.TenantID, filter models.ProductFilter) ([]*models.Product, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, dErrors.New(dErrors.CodeValidation, "unknown product status")
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

	products, total, err := s.products.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, total, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID, cmd *UpdateProductCommand) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireProductID(productID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.products.FindByTenantAndID(txCtx, tenantID, productID)
		if err != nil {
			return wrapProductErr(err)
		}
		if cmd.IsEmpty() {
			product = p
			return nil
		}

		details := models.ProductDetails{
			CategoryID:        p.CategoryID,
			Name:              p.Name,
			SKU:               p.SKU,
			Barcode:           p.Barcode,
			Price:             p.Price,
			Cost:              p.Cost,
			LowStockThreshold: p.LowStockThreshold,
			Maintainable:      p.Maintainable,
		}
		if cmd.CategoryID != nil {
			details.CategoryID = *cmd.CategoryID
			if err := s.checkCategory(txCtx, tenantID, details.CategoryID); err != nil {
				return err
			}
		}
		if cmd.Name != nil {
			details.Name = *cmd.Name
		}
		if cmd.SKU != nil {
			details.SKU = *cmd.SKU
		}
		if cmd.Barcode != nil {
			details.Barcode = *cmd.Barcode
		}
		if cmd.Price != nil {
			details.Price = *cmd.Price
		}
		if cmd.Cost != nil {
			details.Cost = *cmd.Cost
		}
		if cmd.LowStockThreshold != nil {
			details.LowStockThreshold = *cmd.LowStockThreshold
		}
		if cmd.Maintainable != nil {
			details.Maintainable = *cmd.Maintainable
		}

		if err := p.UpdateDetails(details, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.products.Update(txCtx, p); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "sku already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update product")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock moves stock by a signed delta. Going below zero is a
// conflict, not a clamp: the register must find out the stock it was
// promised is gone.
func (s *ProductService) AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, cmd *AdjustStockCommand) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireProductID(productID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.products.AdjustStock(txCtx, tenantID, productID, cmd.Delta)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "product not found")
			}
			if errors.Is(err, sentinel.ErrInsufficientStock) {
				return dErrors.New(dErrors.CodeConflict, "insufficient stock")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to adjust stock")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementStockAdjustments()
	if s.logger != nil {
		s.logger.InfoContext(ctx, "stock adjusted",
			"product_id", product.ID,
			"delta", cmd.Delta,
			"stock", product.Stock,
			"reason", cmd.Reason,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return product, nil
}

func (s *ProductService) DeactivateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireProductID(productID); err != nil {
		return nil, err
	}
	var product *models.Product
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.products.FindByTenantAndID(txCtx, tenantID, productID)
		if err != nil {
			return wrapProductErr(err)
		}

		if err := p.Deactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "product is already inactive")
			}
			return err
		}

		if err := s.products.Update(txCtx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update product")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ReactivateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireProductID(productID); err != nil {
		return nil, err
	}
	var product *models.Product
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.products.FindByTenantAndID(txCtx, tenantID, productID)
		if err != nil {
			return wrapProductErr(err)
		}

		if err := p.Reactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "product is already active")
			}
			return err
		}

		if err := s.products.Update(txCtx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update product")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// checkCategory verifies a category reference belongs to the tenant. A nil
// category means "uncategorized" and always passes.
func (s *ProductService) checkCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) error {
	if categoryID.IsNil() {
		return nil
	}
	_, err := s.categories.FindByTenantAndID(ctx, tenantID, categoryID)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NewValidation("validation failed", map[string]string{
			"category_id": "category does not exist",
		})
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify category")
}

func (s *ProductService) incrementProductsCreated() {
	if s.metrics != nil {
		s.metrics.IncrementProductsCreated()
	}
}

func (s *ProductService) incrementStockAdjustments() {
	if s.metrics != nil {
		s.metrics.IncrementStockAdjustments()
	}
}
