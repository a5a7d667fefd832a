package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fieldpos/internal/events"
	"fieldpos/internal/sentinel"
	"fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// Store interfaces define persistence contracts.

type TenantStore interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	List(ctx context.Context, filter models.TenantFilter) ([]*models.Tenant, int, error)
}

type BranchStore interface {
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	FindByTenantAndID(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Branch, error)
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

// StaffCounter reports staff headcount for tenant dashboards.
// Implemented by the staff context.
type StaffCounter interface {
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

// OwnerProvisioner creates the initial owner account for a new tenant.
// Implemented by the staff context so tenant onboarding stays atomic: the
// call runs inside the onboarding transaction carried by ctx.
type OwnerProvisioner interface {
	ProvisionOwner(ctx context.Context, tenantID id.TenantID, name, email, password string) (id.StaffID, error)
}

// Cache is the slice of Redis the tenant gate needs for status lookups.
// A nil-miss is reported as sentinel.ErrNotFound.
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ID validation helpers reduce repetition in service methods.

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func requireBranchID(branchID id.BranchID) error {
	if branchID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "branch ID required")
	}
	return nil
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapTenantErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant lookup failed")
}

func wrapBranchErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "branch not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "branch lookup failed")
}

// eventEmitter publishes domain events after the transaction commits.
// Publishing is best-effort: a failed publish is logged, never surfaced, so
// an event stream outage does not block tenant administration.
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
		AggregateType: events.AggregateTenant,
		AggregateID:   aggregateID,
		TenantID:      tenantID.String(),
		OccurredAt:    requestcontext.Now(ctx),
		Payload:       payload,
	}
	if err := e.publisher.Publish(ctx, evt); err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "failed to publish tenant event",
			"event", eventType,
			"tenant_id", tenantID,
			"error", err,
		)
	}
}
