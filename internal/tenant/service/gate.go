package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fieldpos/internal/sentinel"
	tenantmetrics "fieldpos/internal/tenant/metrics"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

const (
	gateKeyPrefix   = "tenant:status:"
	defaultGateTTL  = 5 * time.Minute
	gateValueActive = "active"
	gateValueOther  = "inactive"
)

// Gate answers "may this tenant be served" on the request hot path. Lookups
// are cached in Redis; status transitions invalidate the entry through the
// tenant service, so cache staleness only delays reactivation, never extends
// access for a suspended tenant beyond the TTL.
type Gate struct {
	tenants TenantStore
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
}

// NewGate builds a gate over the tenant store. cache may be nil, in which
// case every check hits the store.
func NewGate(tenants TenantStore, cache Cache, ttl time.Duration, logger *slog.Logger, metrics *tenantmetrics.Metrics) *Gate {
	if ttl <= 0 {
		ttl = defaultGateTTL
	}
	return &Gate{
		tenants: tenants,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Allow returns nil when the tenant exists and is active. A suspended tenant
// yields CodeForbidden so every staff member of the business is locked out
// at once.
func (g *Gate) Allow(ctx context.Context, tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	start := time.Now()
	defer g.observeCheck(start)

	if status, ok := g.cachedStatus(ctx, tenantID); ok {
		if status == gateValueActive {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "tenant is deactivated")
	}

	tenant, err := g.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeForbidden, "tenant not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "tenant status check failed")
	}

	g.storeStatus(ctx, tenantID, tenant.IsActive())

	if !tenant.IsActive() {
		return dErrors.New(dErrors.CodeForbidden, "tenant is deactivated")
	}
	return nil
}

// IsTenantActive adapts the gate to the auth middleware's interface. A
// missing tenant reads as inactive; only infrastructure failures surface
// as errors.
func (g *Gate) IsTenantActive(ctx context.Context, tenantID id.TenantID) (bool, error) {
	err := g.Allow(ctx, tenantID)
	switch {
	case err == nil:
		return true, nil
	case dErrors.HasCode(err, dErrors.CodeForbidden), dErrors.HasCode(err, dErrors.CodeBadRequest):
		return false, nil
	default:
		return false, err
	}
}

// Invalidate drops the cached status entry after a transition.
func (g *Gate) Invalidate(ctx context.Context, tenantID id.TenantID) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, gateKeyPrefix+tenantID.String()); err != nil && g.logger != nil {
		g.logger.WarnContext(ctx, "failed to invalidate tenant status cache",
			"tenant_id", tenantID,
			"error", err,
		)
	}
}

func (g *Gate) cachedStatus(ctx context.Context, tenantID id.TenantID) (string, bool) {
	if g.cache == nil {
		return "", false
	}
	status, err := g.cache.GetString(ctx, gateKeyPrefix+tenantID.String())
	if err != nil {
		// Cache miss or Redis trouble: fall through to the store either way.
		if !errors.Is(err, sentinel.ErrNotFound) && g.logger != nil {
			g.logger.WarnContext(ctx, "tenant status cache read failed",
				"tenant_id", tenantID,
				"error", err,
			)
		}
		g.incrementCacheMiss()
		return "", false
	}
	g.incrementCacheHit()
	return status, true
}

func (g *Gate) storeStatus(ctx context.Context, tenantID id.TenantID, active bool) {
	if g.cache == nil {
		return
	}
	value := gateValueOther
	if active {
		value = gateValueActive
	}
	if err := g.cache.SetString(ctx, gateKeyPrefix+tenantID.String(), value, g.ttl); err != nil && g.logger != nil {
		g.logger.WarnContext(ctx, "tenant status cache write failed",
			"tenant_id", tenantID,
			"error", err,
		)
	}
}

func (g *Gate) observeCheck(start time.Time) {
	if g.metrics != nil {
		g.metrics.ObserveGateCheck(start)
	}
}

func (g *Gate) incrementCacheHit() {
	if g.metrics != nil {
		g.metrics.IncrementGateCacheHit()
	}
}

func (g *Gate) incrementCacheMiss() {
	if g.metrics != nil {
		g.metrics.IncrementGateCacheMiss()
	}
}
