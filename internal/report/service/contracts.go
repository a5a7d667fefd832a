package service

import (
	"context"
	"log/slog"
	"time"

	reportmetrics "fieldpos/internal/report/metrics"
	"fieldpos/internal/report/models"
	"fieldpos/internal/tracer"
	id "fieldpos/pkg/domain"
)

// SalesSource answers the aggregate sales queries behind the reports.
// The production implementation runs the aggregates in SQL; the memory
// implementation folds over the demo stores.
type SalesSource interface {
	// SalesTotals sums completed sales inside the query period.
	SalesTotals(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (models.SalesTotals, error)

	// TopProducts returns the best-selling products of the period by
	// units sold, at most limit of them.
	TopProducts(ctx context.Context, tenantID id.TenantID, q models.SalesQuery, limit int) ([]models.TopProduct, error)

	// SaleRows returns the flat export rows for the period, oldest
	// first, including voided sales.
	SaleRows(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) ([]models.SaleRow, error)
}

// MaintenanceSource answers the aggregate maintenance queries behind the
// reports.
type MaintenanceSource interface {
	// ContractCounts tallies the tenant's contracts by status.
	ContractCounts(ctx context.Context, tenantID id.TenantID) (models.ContractCounts, error)

	// VisitOutcomes counts completed and missed visits scheduled inside
	// the period.
	VisitOutcomes(ctx context.Context, tenantID id.TenantID, period models.Period) (models.VisitOutcomes, error)

	// UpcomingVisits counts visits still scheduled on or after the
	// given day.
	UpcomingVisits(ctx context.Context, tenantID id.TenantID, onOrAfter time.Time) (int, error)
}

// Cache is the slice of Redis the report service needs. Summaries are
// small JSON blobs behind a short TTL; a nil cache disables caching.
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

// serviceConfig holds optional dependencies for the report service.
type serviceConfig struct {
	logger   *slog.Logger
	cache    Cache
	cacheTTL time.Duration
	metrics  *reportmetrics.Metrics
	tracer   tracer.Tracer
}

// Option configures the report service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

// WithCache serves repeated sales summaries from Redis instead of
// re-running the aggregates. Entries expire on their own; nothing
// invalidates them early, so a summary can lag live sales by the TTL.
func WithCache(cache Cache) Option {
	return func(c *serviceConfig) {
		c.cache = cache
	}
}

// WithCacheTTL overrides how long cached summaries live. Defaults to
// five minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *serviceConfig) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

func WithMetrics(m *reportmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTracer traces report generation. Defaults to a noop tracer when
// unset.
func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}
