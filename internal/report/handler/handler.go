// Package handler exposes the owner-facing report endpoints.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/report/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// dateFormat is the wire format for period bounds.
const dateFormat = "2006-01-02"

// xlsxContentType is the MIME type of an Office Open XML workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService defines the report operations the API surfaces. Every
// method is scoped to the caller's tenant.
type ReportService interface {
	SalesSummary(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (*models.SalesSummary, error)
	MaintenanceSummary(ctx context.Context, tenantID id.TenantID, period models.Period) (*models.MaintenanceSummary, error)
	SalesExport(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) ([]byte, string, error)
}

type Handler struct {
	reports ReportService
	logger  *slog.Logger
}

func New(reports ReportService, logger *slog.Logger) *Handler {
	return &Handler{reports: reports, logger: logger}
}

// RegisterReports mounts the owner dashboard routes.
func (h *Handler) RegisterReports(r chi.Router) {
	r.Get("/reports/sales", h.HandleSalesSummary)
	r.Get("/reports/maintenance", h.HandleMaintenanceSummary)
	r.Get("/reports/sales/export", h.HandleSalesExport)
}

// HandleSalesSummary returns revenue, sale count, average ticket, and
// the best-selling products for the period. Without from/to the summary
// covers the last thirty days.
func (h *Handler) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q, ok := parseSalesQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.SalesSummary(ctx, actor.TenantID, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "sales summary failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSalesSummaryResponse(summary))
}

// HandleMaintenanceSummary returns the contract book by status, visit
// outcomes inside the period, and the upcoming visit count.
func (h *Handler) HandleMaintenanceSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.MaintenanceSummary(ctx, actor.TenantID, period)
	if err != nil {
		h.logger.ErrorContext(ctx, "maintenance summary failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toMaintenanceSummaryResponse(summary))
}

// HandleSalesExport streams the period's sales as an XLSX download.
func (h *Handler) HandleSalesExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q, ok := parseSalesQuery(w, r)
	if !ok {
		return
	}

	workbook, filename, err := h.reports.SalesExport(ctx, actor.TenantID, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "sales export failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(workbook)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		h.logger.WarnContext(ctx, "sales export write aborted", "error", err, "request_id", requestID)
	}
}

// parseSalesQuery reads the period and optional branch filter. A false
// return means the error response was already written.
func parseSalesQuery(w http.ResponseWriter, r *http.Request) (models.SalesQuery, bool) {
	period, ok := parsePeriod(w, r)
	if !ok {
		return models.SalesQuery{}, false
	}
	q := models.SalesQuery{Period: period}
	if branchStr := r.URL.Query().Get("branch_id"); branchStr != "" {
		branchID, err := id.ParseBranchID(branchStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
			return models.SalesQuery{}, false
		}
		q.BranchID = branchID
	}
	return q, true
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (models.Period, bool) {
	var period models.Period
	q := r.URL.Query()
	if fromStr := q.Get("from"); fromStr != "" {
		from, err := time.Parse(dateFormat, fromStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid from date, expected YYYY-MM-DD"))
			return models.Period{}, false
		}
		period.From = from
	}
	if toStr := q.Get("to"); toStr != "" {
		to, err := time.Parse(dateFormat, toStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid to date, expected YYYY-MM-DD"))
			return models.Period{}, false
		}
		period.To = to
	}
	return period, true
}
