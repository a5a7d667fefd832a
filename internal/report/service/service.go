// Package service assembles the owner-facing sales and maintenance
// reports. Aggregates are fetched in parallel, the sales summary is
// cached in Redis for a few minutes, and the export renders to XLSX.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	reportmetrics "fieldpos/internal/report/metrics"
	"fieldpos/internal/report/models"
	"fieldpos/internal/sentinel"
	"fieldpos/internal/tracer"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	platformsync "fieldpos/pkg/platform/sync"
	"fieldpos/pkg/requestcontext"
)

const (
	// summaryTTL bounds how stale a cached sales summary can get.
	summaryTTL = 5 * time.Minute

	// salesSummaryKeyPrefix namespaces summary blobs in Redis.
	salesSummaryKeyPrefix = "report:sales:"

	// topProductsLimit caps the best-sellers table.
	topProductsLimit = 5

	// defaultPeriodDays sizes the period when the caller names none.
	defaultPeriodDays = 30

	// maxPeriodDays rejects periods that would aggregate more than a
	// year of rows in one request.
	maxPeriodDays = 366
)

// Service computes reports over the sales and maintenance stores.
type Service struct {
	sales    SalesSource
	maint    MaintenanceSource
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *reportmetrics.Metrics
	tracer   tracer.Tracer

	// computeLocks serializes summary builds per cache key, so a burst
	// of identical requests aggregates once and the rest hit the cache.
	computeLocks platformsync.KeyedMutex
}

// New builds the report service over its two aggregate sources.
func New(sales SalesSource, maint MaintenanceSource, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tr := cfg.tracer
	if tr == nil {
		tr = tracer.NewNoop()
	}
	ttl := cfg.cacheTTL
	if ttl <= 0 {
		ttl = summaryTTL
	}
	return &Service{
		sales:    sales,
		maint:    maint,
		cache:    cfg.cache,
		cacheTTL: ttl,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		tracer:   tr,
	}
}

// SalesSummary aggregates completed sales for the period: revenue, sale
// count, average ticket, and the best-selling products. Results are
// cached per tenant, period, and branch.
func (s *Service) SalesSummary(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (*models.SalesSummary, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	period, err := s.normalizePeriod(ctx, q.Period)
	if err != nil {
		return nil, err
	}
	q.Period = period

	start := time.Now()
	defer s.observeReport("sales", start)

	ctx, span := s.tracer.Start(ctx, tracer.SpanSalesReport, salesQueryAttrs(tenantID, q)...)

	key := s.summaryKey(tenantID, q)
	s.computeLocks.Lock(key)
	defer s.computeLocks.Unlock(key)

	if cached, ok := s.cachedSummary(ctx, tenantID, q); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		span.End(nil)
		return cached, nil
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	summary, err := s.buildSalesSummary(ctx, tenantID, q)
	span.End(err)
	if err != nil {
		return nil, err
	}

	s.storeSummary(ctx, tenantID, q, summary)
	return summary, nil
}

// salesFetchResult holds results from the parallel sales aggregates.
// Each goroutine writes to its own field, avoiding data races.
type salesFetchResult struct {
	totals models.SalesTotals
	top    []models.TopProduct
}

func (s *Service) buildSalesSummary(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (*models.SalesSummary, error) {
	g, gctx := errgroup.WithContext(ctx)

	var result salesFetchResult
	s.launchTotalsFetch(gctx, g, &result, tenantID, q)
	s.launchTopProductsFetch(gctx, g, &result, tenantID, q)

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sales summary failed")
	}

	summary := &models.SalesSummary{
		Period:      q.Period,
		BranchID:    q.BranchID,
		Revenue:     result.totals.Revenue,
		SaleCount:   result.totals.SaleCount,
		TopProducts: result.top,
		GeneratedAt: requestcontext.Now(ctx),
	}
	if summary.SaleCount > 0 {
		summary.AverageTicket = summary.Revenue / float64(summary.SaleCount)
	}
	return summary, nil
}

func (s *Service) launchTotalsFetch(ctx context.Context, g *errgroup.Group, result *salesFetchResult, tenantID id.TenantID, q models.SalesQuery) {
	g.Go(func() error {
		totals, err := s.sales.SalesTotals(ctx, tenantID, q)
		if err != nil {
			return err
		}
		result.totals = totals
		return nil
	})
}

func (s *Service) launchTopProductsFetch(ctx context.Context, g *errgroup.Group, result *salesFetchResult, tenantID id.TenantID, q models.SalesQuery) {
	g.Go(func() error {
		top, err := s.sales.TopProducts(ctx, tenantID, q, topProductsLimit)
		if err != nil {
			return err
		}
		result.top = top
		return nil
	})
}

// MaintenanceSummary reports the contract book by status, visit outcomes
// inside the period, and how many visits are still scheduled ahead.
func (s *Service) MaintenanceSummary(ctx context.Context, tenantID id.TenantID, period models.Period) (*models.MaintenanceSummary, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	period, err := s.normalizePeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer s.observeReport("maintenance", start)

	ctx, span := s.tracer.Start(ctx, tracer.SpanMaintenanceReport,
		tracer.String(tracer.AttrTenantID, tenantID.String()),
		tracer.String(tracer.AttrFrom, period.From.Format(time.DateOnly)),
		tracer.String(tracer.AttrTo, period.To.Format(time.DateOnly)),
	)

	summary, err := s.buildMaintenanceSummary(ctx, tenantID, period)
	span.End(err)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// maintFetchResult holds results from the parallel maintenance
// aggregates, one field per goroutine.
type maintFetchResult struct {
	counts   models.ContractCounts
	outcomes models.VisitOutcomes
	upcoming int
}

func (s *Service) buildMaintenanceSummary(ctx context.Context, tenantID id.TenantID, period models.Period) (*models.MaintenanceSummary, error) {
	today := dateOnly(requestcontext.Now(ctx))

	g, gctx := errgroup.WithContext(ctx)

	var result maintFetchResult
	s.launchContractCountsFetch(gctx, g, &result, tenantID)
	s.launchVisitOutcomesFetch(gctx, g, &result, tenantID, period)
	s.launchUpcomingFetch(gctx, g, &result, tenantID, today)

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "maintenance summary failed")
	}

	return &models.MaintenanceSummary{
		Period:          period,
		Contracts:       result.counts,
		VisitsCompleted: result.outcomes.Completed,
		VisitsMissed:    result.outcomes.Missed,
		UpcomingVisits:  result.upcoming,
		GeneratedAt:     requestcontext.Now(ctx),
	}, nil
}

func (s *Service) launchContractCountsFetch(ctx context.Context, g *errgroup.Group, result *maintFetchResult, tenantID id.TenantID) {
	g.Go(func() error {
		counts, err := s.maint.ContractCounts(ctx, tenantID)
		if err != nil {
			return err
		}
		result.counts = counts
		return nil
	})
}

func (s *Service) launchVisitOutcomesFetch(ctx context.Context, g *errgroup.Group, result *maintFetchResult, tenantID id.TenantID, period models.Period) {
	g.Go(func() error {
		outcomes, err := s.maint.VisitOutcomes(ctx, tenantID, period)
		if err != nil {
			return err
		}
		result.outcomes = outcomes
		return nil
	})
}

func (s *Service) launchUpcomingFetch(ctx context.Context, g *errgroup.Group, result *maintFetchResult, tenantID id.TenantID, onOrAfter time.Time) {
	g.Go(func() error {
		upcoming, err := s.maint.UpcomingVisits(ctx, tenantID, onOrAfter)
		if err != nil {
			return err
		}
		result.upcoming = upcoming
		return nil
	})
}

// SalesExport renders the period's sales, voided ones included, into an
// XLSX workbook. It returns the file bytes and a download filename.
func (s *Service) SalesExport(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) ([]byte, string, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, "", err
	}
	period, err := s.normalizePeriod(ctx, q.Period)
	if err != nil {
		return nil, "", err
	}
	q.Period = period

	start := time.Now()
	defer s.observeReport("sales_export", start)

	ctx, span := s.tracer.Start(ctx, tracer.SpanSalesExport, salesQueryAttrs(tenantID, q)...)

	rows, err := s.sales.SaleRows(ctx, tenantID, q)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "sales export failed")
		span.End(err)
		return nil, "", err
	}
	span.SetAttributes(tracer.Int(tracer.AttrRowCount, len(rows)))

	workbook, err := buildSalesWorkbook(rows)
	span.End(err)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "sales export failed")
	}

	filename := "sales_" + q.From.Format(time.DateOnly) + "_" + q.To.Format(time.DateOnly) + ".xlsx"
	return workbook, filename, nil
}

// normalizePeriod applies the default window, strips times of day, and
// bounds the range. Callers must name both ends or neither.
func (s *Service) normalizePeriod(ctx context.Context, p models.Period) (models.Period, error) {
	if p.From.IsZero() && p.To.IsZero() {
		today := dateOnly(requestcontext.Now(ctx))
		return models.Period{From: today.AddDate(0, 0, -(defaultPeriodDays - 1)), To: today}, nil
	}
	if p.From.IsZero() {
		return models.Period{}, dErrors.NewValidation("reporting period is incomplete", map[string]string{
			"from": "required when to is set",
		})
	}
	if p.To.IsZero() {
		return models.Period{}, dErrors.NewValidation("reporting period is incomplete", map[string]string{
			"to": "required when from is set",
		})
	}
	p.From = dateOnly(p.From)
	p.To = dateOnly(p.To)
	if p.To.Before(p.From) {
		return models.Period{}, dErrors.NewValidation("reporting period is invalid", map[string]string{
			"from": "must not be after to",
		})
	}
	if p.Days() > maxPeriodDays {
		return models.Period{}, dErrors.NewValidation("reporting period is too long", map[string]string{
			"to": "period must not exceed one year",
		})
	}
	return p, nil
}

func (s *Service) summaryKey(tenantID id.TenantID, q models.SalesQuery) string {
	key := salesSummaryKeyPrefix + tenantID.String() +
		":" + q.From.Format(time.DateOnly) +
		":" + q.To.Format(time.DateOnly)
	if !q.BranchID.IsNil() {
		key += ":" + q.BranchID.String()
	}
	return key
}

func (s *Service) cachedSummary(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (*models.SalesSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	blob, err := s.cache.GetString(ctx, s.summaryKey(tenantID, q))
	if err != nil {
		// Cache miss or Redis trouble: recompute either way.
		if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
			s.logger.WarnContext(ctx, "sales summary cache read failed",
				"tenant_id", tenantID,
				"error", err,
			)
		}
		s.incrementCacheMiss()
		return nil, false
	}
	var summary models.SalesSummary
	if err := json.Unmarshal([]byte(blob), &summary); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "sales summary cache entry malformed",
				"tenant_id", tenantID,
				"error", err,
			)
		}
		s.incrementCacheMiss()
		return nil, false
	}
	s.incrementCacheHit()
	return &summary, true
}

func (s *Service) storeSummary(ctx context.Context, tenantID id.TenantID, q models.SalesQuery, summary *models.SalesSummary) {
	if s.cache == nil {
		return
	}
	blob, err := json.Marshal(summary)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "sales summary cache encode failed",
				"tenant_id", tenantID,
				"error", err,
			)
		}
		return
	}
	if err := s.cache.SetString(ctx, s.summaryKey(tenantID, q), string(blob), s.cacheTTL); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "sales summary cache write failed",
			"tenant_id", tenantID,
			"error", err,
		)
	}
}

func salesQueryAttrs(tenantID id.TenantID, q models.SalesQuery) []tracer.Attribute {
	attrs := []tracer.Attribute{
		tracer.String(tracer.AttrTenantID, tenantID.String()),
		tracer.String(tracer.AttrFrom, q.From.Format(time.DateOnly)),
		tracer.String(tracer.AttrTo, q.To.Format(time.DateOnly)),
	}
	if !q.BranchID.IsNil() {
		attrs = append(attrs, tracer.String(tracer.AttrBranchID, q.BranchID.String()))
	}
	return attrs
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

func (s *Service) observeReport(report string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveReport(report, start)
	}
}

func (s *Service) incrementCacheHit() {
	if s.metrics != nil {
		s.metrics.IncrementCacheHit()
	}
}

func (s *Service) incrementCacheMiss() {
	if s.metrics != nil {
		s.metrics.IncrementCacheMiss()
	}
}

// dateOnly strips the time of day; reporting periods are whole days in
// UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
