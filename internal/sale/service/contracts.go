package service

import (
	"context"
	"errors"
	"log/slog"

	"fieldpos/internal/events"
	"fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// SaleStore persists sales. Create writes the sale together with its items;
// UpdateStatus persists only the lifecycle columns (status, voided_at,
// updated_at) because everything else on a sale is immutable once written.
type SaleStore interface {
	Create(ctx context.Context, sale *models.Sale) error
	UpdateStatus(ctx context.Context, sale *models.Sale) error
	// FindByTenantAndID loads the sale with its items.
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error)
	// ListByTenant returns sale summaries without items.
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.SaleFilter) ([]*models.Sale, int, error)
}

// ProductInfo is the catalog snapshot the register prices a line from.
type ProductInfo struct {
	ID     id.ProductID
	Name   string
	Price  float64
	Active bool
}

// ProductCatalog is the slice of the catalog the register needs: pricing
// data for the line snapshot and atomic stock movement inside the sale
// transaction. AdjustStock reports a move below zero as
// sentinel.ErrInsufficientStock, so two registers cannot both take the
// last unit.
type ProductCatalog interface {
	ProductForSale(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*ProductInfo, error)
	AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, delta int) error
}

// CustomerDirectory answers whether a customer exists under a tenant. Sales
// validate the optional customer reference through it; the customer context
// supplies the implementation at wiring time.
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (bool, error)
}

// BranchDirectory answers whether a branch exists under a tenant.
type BranchDirectory interface {
	BranchExists(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (bool, error)
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireSaleID(saleID id.SaleID) error {
	if saleID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "sale ID required")
	}
	return nil
}

func wrapSaleErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "sale not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "sale lookup failed")
}

// eventEmitter publishes domain events after the transaction commits.
// Publishing is best-effort: a failed publish is logged, never surfaced, so
// an event stream outage does not block the register.
type eventEmitter struct {
	logger    *slog.Logger
	publisher events.Publisher
}

func newEventEmitter(logger *slog.Logger, publisher events.Publisher) *eventEmitter {
	return &eventEmitter{logger: logger, publisher: publisher}
}

func (e *eventEmitter) emit(ctx context.Context, eventType, aggregateID string, tenantID id.TenantID, payload any) {
	if e.publisher == nil {
		return
	}
	evt := events.Event{
		Type:          eventType,
		AggregateType: events.AggregateSale,
		AggregateID:   aggregateID,
		TenantID:      tenantID.String(),
		OccurredAt:    requestcontext.Now(ctx),
		Payload:       payload,
	}
	if err := e.publisher.Publish(ctx, evt); err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "failed to publish sale event",
			"event", eventType,
			"tenant_id", tenantID,
			"error", err,
		)
	}
}
