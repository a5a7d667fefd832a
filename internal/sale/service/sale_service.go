// Package service implements register operations: ringing up, voiding, and
// browsing sales.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldpos/internal/sale/device"
	salemetrics "fieldpos/internal/sale/metrics"
	"fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// SaleService rings up and voids sales. Stock moves exactly once per
// completed sale and once per void, inside the same transaction that
// persists the sale itself.
type SaleService struct {
	sales     SaleStore
	products  ProductCatalog
	customers CustomerDirectory
	branches  BranchDirectory
	logger    *slog.Logger
	metrics   *salemetrics.Metrics
	emitter   *eventEmitter
	tx        StoreTx
}

func NewSaleService(sales SaleStore, products ProductCatalog, opts ...Option) *SaleService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &SaleService{
		sales:     sales,
		products:  products,
		customers: cfg.customers,
		branches:  cfg.branches,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		emitter:   newEventEmitter(cfg.logger, cfg.publisher),
		tx:        tx,
	}
}

// CreateSale prices the requested lines from the catalog, decrements stock,
// and persists the sale with snapshotted items, all in one transaction.
// Insufficient stock surfaces as a conflict naming the product.
func (s *SaleService) CreateSale(ctx context.Context, cmd *CreateSaleCommand) (*models.Sale, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lines := cmd.mergedLines()
	saleID := id.SaleID(uuid.New())
	deviceLabel := device.Label(requestcontext.UserAgent(ctx))

	var sale *models.Sale
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkBranch(txCtx, cmd.TenantID, cmd.BranchID); err != nil {
			return err
		}
		if err := s.checkCustomer(txCtx, cmd.TenantID, cmd.CustomerID); err != nil {
			return err
		}

		now := requestcontext.Now(txCtx)

		// Price everything and validate the payment before any stock moves,
		// so a rejected sale leaves nothing to undo.
		items := make([]*models.SaleItem, 0, len(lines))
		for i, line := range lines {
			info, err := s.products.ProductForSale(txCtx, cmd.TenantID, line.ProductID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return lineError(i, "product does not exist")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to price sale item")
			}
			if !info.Active {
				return lineError(i, "product is inactive")
			}
			item, err := models.NewSaleItem(id.SaleItemID(uuid.New()), saleID, info.ID, info.Name, info.Price, line.Quantity)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		var subtotal float64
		for _, item := range items {
			subtotal += item.LineTotal
		}
		subtotal = models.RoundCents(subtotal)
		if models.RoundCents(cmd.Discount) > subtotal {
			return dErrors.NewValidation("validation failed", map[string]string{
				"discount": "discount cannot exceed the subtotal",
			})
		}
		if models.RoundCents(cmd.Paid) < models.RoundCents(subtotal-cmd.Discount) {
			return dErrors.NewValidation("validation failed", map[string]string{
				"paid": "paid amount does not cover the total",
			})
		}

		built, err := models.NewSale(saleID, cmd.TenantID, cmd.BranchID, cmd.CashierID, cmd.CustomerID,
			invoiceNumber(now, saleID), items, cmd.Discount, cmd.Paid, cmd.PaymentMethod, deviceLabel, now)
		if err != nil {
			return err
		}

		if err := s.takeStock(txCtx, cmd.TenantID, items); err != nil {
			return err
		}

		if err := s.sales.Create(txCtx, built); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "invoice number already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sale")
		}
		sale = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveSale(sale.Total)
	}
	s.emitter.emit(ctx, "sale.created", sale.ID.String(), sale.TenantID, models.SaleCompleted{
		SaleID:     sale.ID,
		TenantID:   sale.TenantID,
		BranchID:   sale.BranchID,
		InvoiceNo:  sale.InvoiceNo,
		Total:      sale.Total,
		ItemCount:  len(sale.Items),
		CashierID:  sale.CashierID,
		CustomerID: sale.CustomerID,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "sale completed",
			"sale_id", sale.ID,
			"tenant_id", sale.TenantID,
			"branch_id", sale.BranchID,
			"invoice_no", sale.InvoiceNo,
			"total", sale.Total,
			"items", len(sale.Items),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return sale, nil
}

// takeStock decrements every line, and on failure re-adds what this sale
// already took. A database transaction discards the compensation along with
// everything else on rollback; the in-memory runner has no rollback, so the
// compensation is what keeps counts right there.
func (s *SaleService) takeStock(ctx context.Context, tenantID id.TenantID, items []*models.SaleItem) error {
	for taken, item := range items {
		err := s.products.AdjustStock(ctx, tenantID, item.ProductID, -item.Quantity)
		if err == nil {
			continue
		}

		var moveErr error
		if errors.Is(err, sentinel.ErrInsufficientStock) {
			moveErr = dErrors.New(dErrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", item.ProductName))
		} else {
			moveErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to move stock")
		}

		for _, prior := range items[:taken] {
			if restoreErr := s.products.AdjustStock(ctx, tenantID, prior.ProductID, prior.Quantity); restoreErr != nil && s.logger != nil {
				s.logger.ErrorContext(ctx, "failed to restore stock after aborted sale",
					"product_id", prior.ProductID,
					"quantity", prior.Quantity,
					"error", restoreErr,
				)
			}
		}
		return moveErr
	}
	return nil
}

// GetSale returns one sale of the tenant with its items.
func (s *SaleService) GetSale(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireSaleID(saleID); err != nil {
		return nil, err
	}
	sale, err := s.sales.FindByTenantAndID(ctx, tenantID, saleID)
	if err != nil {
		return nil, wrapSaleErr(err)
	}
	return sale, nil
}

// ListSales pages through the tenant's sale history, newest first.
func (s *SaleService) ListSales(ctx context.Context, tenantID id.TenantID, filter models.SaleFilter) ([]*models.Sale, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, dErrors.NewValidation("validation failed", map[string]string{
			"status": "unknown status",
		})
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, 0, dErrors.NewValidation("validation failed", map[string]string{
			"from": "from must not be after to",
		})
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

	sales, total, err := s.sales.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sales")
	}
	return sales, total, nil
}

// VoidSale reverses a completed sale and returns every item's quantity to
// stock in the same transaction. Voiding twice is a conflict.
func (s *SaleService) VoidSale(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireSaleID(saleID); err != nil {
		return nil, err
	}

	var sale *models.Sale
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.sales.FindByTenantAndID(txCtx, tenantID, saleID)
		if err != nil {
			return wrapSaleErr(err)
		}
		if err := found.Void(requestcontext.Now(txCtx)); err != nil {
			return err
		}
		for _, item := range found.Items {
			if err := s.products.AdjustStock(txCtx, tenantID, item.ProductID, item.Quantity); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore stock")
			}
		}
		if err := s.sales.UpdateStatus(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to void sale")
		}
		sale = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSalesVoided()
	}
	s.emitter.emit(ctx, "sale.voided", sale.ID.String(), sale.TenantID, models.SaleVoided{
		SaleID:   sale.ID,
		TenantID: sale.TenantID,
		BranchID: sale.BranchID,
		Total:    sale.Total,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "sale voided",
			"sale_id", sale.ID,
			"tenant_id", sale.TenantID,
			"invoice_no", sale.InvoiceNo,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return sale, nil
}

// checkBranch verifies the branch belongs to the tenant when a directory is
// wired.
func (s *SaleService) checkBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) error {
	if s.branches == nil {
		return nil
	}
	exists, err := s.branches.BranchExists(ctx, tenantID, branchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify branch")
	}
	if !exists {
		return dErrors.NewValidation("validation failed", map[string]string{
			"branch_id": "branch does not exist",
		})
	}
	return nil
}

// checkCustomer verifies the optional customer reference belongs to the
// tenant. A nil customer means a walk-in and always passes.
func (s *SaleService) checkCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) error {
	if customerID.IsNil() || s.customers == nil {
		return nil
	}
	exists, err := s.customers.CustomerExists(ctx, tenantID, customerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify customer")
	}
	if !exists {
		return dErrors.NewValidation("validation failed", map[string]string{
			"customer_id": "customer does not exist",
		})
	}
	return nil
}

func lineError(index int, msg string) error {
	return dErrors.NewValidation("validation failed", map[string]string{
		fmt.Sprintf("items[%d].product_id", index): msg,
	})
}

// invoiceNumber derives the receipt number from the sale time and ID:
// INV-20260314-7F3A2B1C. The ID suffix keeps it unique without a counter
// row; the date keeps it meaningful on a printed receipt.
func invoiceNumber(now time.Time, saleID id.SaleID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(saleID.String(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix[:8])
}
