// Package handler exposes the register's sale endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/sale/models"
	"fieldpos/internal/sale/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// SaleService defines the register operations the API surfaces need. Every
// method is scoped to the caller's tenant.
type SaleService interface {
	CreateSale(ctx context.Context, cmd *service.CreateSaleCommand) (*models.Sale, error)
	GetSale(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error)
	ListSales(ctx context.Context, tenantID id.TenantID, filter models.SaleFilter) ([]*models.Sale, int, error)
	VoidSale(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error)
}

type Handler struct {
	sales  SaleService
	logger *slog.Logger
}

func New(sales SaleService, logger *slog.Logger) *Handler {
	return &Handler{sales: sales, logger: logger}
}

// RegisterCreate mounts the ring-up route.
func (h *Handler) RegisterCreate(r chi.Router) {
	r.Post("/sales", h.HandleCreateSale)
}

// RegisterRead mounts the sale history routes.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/sales", h.HandleListSales)
	r.Get("/sales/{id}", h.HandleGetSale)
}

// RegisterVoid mounts the void route.
func (h *Handler) RegisterVoid(r chi.Router) {
	r.Post("/sales/{id}/void", h.HandleVoidSale)
}

// HandleCreateSale rings up a sale for the caller's tenant.
func (h *Handler) HandleCreateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateSaleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sale, err := h.sales.CreateSale(ctx, req.ToCommand(actor))
	if err != nil {
		h.logger.ErrorContext(ctx, "create sale failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toSaleResponse(sale))
}

// HandleListSales pages through the tenant's sale history, newest first.
// Cashiers browse their own branch only; other roles filter freely.
func (h *Handler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.SaleFilter{
		Status: models.SaleStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
	}
	if branchStr := q.Get("branch_id"); branchStr != "" {
		branchID, err := id.ParseBranchID(branchStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
			return
		}
		filter.BranchID = branchID
	}
	if cashierStr := q.Get("cashier_id"); cashierStr != "" {
		cashierID, err := id.ParseStaffID(cashierStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid cashier id"))
			return
		}
		filter.CashierID = cashierID
	}
	if customerStr := q.Get("customer_id"); customerStr != "" {
		customerID, err := id.ParseCustomerID(customerStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer id"))
			return
		}
		filter.CustomerID = customerID
	}
	if fromStr := q.Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.From = from
	}
	if toStr := q.Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid to date, expected YYYY-MM-DD"))
			return
		}
		// The to date is inclusive: cover the whole day.
		filter.To = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	if actor.Role == id.RoleCashier {
		filter.BranchID = actor.BranchID
	}

	sales, total, err := h.sales.ListSales(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sales failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSaleListResponse(sales, total))
}

// HandleGetSale returns one sale with its items. An ID belonging to another
// tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	saleID, err := id.ParseSaleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid sale id"))
		return
	}

	sale, err := h.sales.GetSale(ctx, actor.TenantID, saleID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get sale failed", "error", err, "request_id", requestID, "sale_id", saleID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
}

// HandleVoidSale reverses a completed sale and restores its stock.
func (h *Handler) HandleVoidSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	saleID, err := id.ParseSaleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid sale id"))
		return
	}

	sale, err := h.sales.VoidSale(ctx, actor.TenantID, saleID)
	if err != nil {
		h.logger.ErrorContext(ctx, "void sale failed", "error", err, "request_id", requestID, "sale_id", saleID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
}
