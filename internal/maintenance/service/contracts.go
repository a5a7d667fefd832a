package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fieldpos/internal/events"
	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// ContractStore persists maintenance contracts. Create writes the contract
// together with its items; the visit schedule goes through the VisitStore in
// the same transaction. Update persists the contract's mutable columns
// (status, period, total_visits, renewal_count, technician, notes,
// updated_at) because items are immutable once written.
type ContractStore interface {
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	// FindByTenantAndID loads the contract with its items and visits.
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error)
	// ListByTenant returns contract summaries without items or visits.
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ContractFilter) ([]*models.Contract, int, error)
	// ListExpired returns active contracts across every tenant whose end
	// date falls before the cutoff. The expiry sweep is the only caller.
	ListExpired(ctx context.Context, before time.Time, limit int) ([]*models.Contract, error)
}

// VisitStore persists scheduled visits.
type VisitStore interface {
	CreateBatch(ctx context.Context, visits []*models.Visit) error
	Update(ctx context.Context, visit *models.Visit) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, visitID id.VisitID) (*models.Visit, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.VisitFilter) ([]*models.Visit, int, error)
	// ListOverdue returns scheduled visits across every tenant dated
	// before the cutoff. The expiry sweep is the only caller.
	ListOverdue(ctx context.Context, before time.Time, limit int) ([]*models.Visit, error)
	// CancelScheduled cancels every scheduled visit of the contract and
	// reports how many it touched. Callers verify contract ownership
	// first.
	CancelScheduled(ctx context.Context, contractID id.ContractID, now time.Time) (int, error)
}

// ProductRef is the catalog snapshot a contract item is written from.
type ProductRef struct {
	ID           id.ProductID
	Name         string
	Maintainable bool
	Active       bool
}

// ProductDirectory resolves the products a contract covers. The catalog
// context supplies the implementation at wiring time; missing products
// surface as sentinel.ErrNotFound.
type ProductDirectory interface {
	ProductForContract(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*ProductRef, error)
}

// CustomerDirectory answers whether a customer exists under a tenant.
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (bool, error)
}

// BranchDirectory answers whether a branch exists under a tenant.
type BranchDirectory interface {
	BranchExists(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (bool, error)
}

// SaleRef ties a linked register sale back to its customer.
type SaleRef struct {
	ID         id.SaleID
	CustomerID id.CustomerID
}

// SaleDirectory resolves the optional register sale a contract was sold on.
type SaleDirectory interface {
	SaleForContract(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*SaleRef, error)
}

// StaffDirectory answers whether a staff member is an active technician of
// the tenant. Contract and visit assignment validate through it.
type StaffDirectory interface {
	IsTechnician(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (bool, error)
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireContractID(contractID id.ContractID) error {
	if contractID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "contract ID required")
	}
	return nil
}

func requireVisitID(visitID id.VisitID) error {
	if visitID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "visit ID required")
	}
	return nil
}

func wrapContractErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "contract not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "contract lookup failed")
}

func wrapVisitErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "visit not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "visit lookup failed")
}

// dateOnly strips the time of day; contract periods and visit dates are
// whole days in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// eventEmitter publishes domain events after the transaction commits.
// Publishing is best-effort: a failed publish is logged, never surfaced, so
// an event stream outage does not block contract work.
type eventEmitter struct {
	logger    *slog.Logger
	publisher events.Publisher
}

func newEventEmitter(logger *slog.Logger, publisher events.Publisher) *eventEmitter {
	return &eventEmitter{logger: logger, publisher: publisher}
}

func (e *eventEmitter) emit(ctx context.Context, eventType, aggregateType, aggregateID string, tenantID id.TenantID, payload any) {
	if e.publisher == nil {
		return
	}
	evt := events.Event{
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		TenantID:      tenantID.String(),
		OccurredAt:    requestcontext.Now(ctx),
		Payload:       payload,
	}
	if err := e.publisher.Publish(ctx, evt); err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "failed to publish maintenance event",
			"event", eventType,
			"tenant_id", tenantID,
			"error", err,
		)
	}
}
