package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/customer/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// CustomerService defines the customer operations the API surfaces need.
// Every method is scoped to the caller's tenant.
type CustomerService interface {
	CreateCustomer(ctx context.Context, cmd *service.CreateCustomerCommand) (*models.Customer, error)
	GetCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error)
	ListCustomers(ctx context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error)
	UpdateCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID, cmd *service.UpdateCustomerCommand) (*models.Customer, error)
}

type Handler struct {
	customers CustomerService
	logger    *slog.Logger
}

func New(customers CustomerService, logger *slog.Logger) *Handler {
	return &Handler{customers: customers, logger: logger}
}

// RegisterBusiness mounts the customer management routes for the owner
// surface.
func (h *Handler) RegisterBusiness(r chi.Router) {
	r.Post("/customers", h.HandleCreateCustomer)
	r.Get("/customers", h.HandleListCustomers)
	r.Get("/customers/{id}", h.HandleGetCustomer)
	r.Put("/customers/{id}", h.HandleUpdateCustomer)
}

// RegisterPOS mounts the register's customer routes: search for a repeat
// customer and quick-create a new one mid-sale.
func (h *Handler) RegisterPOS(r chi.Router) {
	r.Post("/customers", h.HandleCreateCustomer)
	r.Get("/customers", h.HandleListCustomers)
	r.Get("/customers/{id}", h.HandleGetCustomer)
}

// RegisterRead mounts the read-only customer routes used by the
// maintenance desk when booking contracts.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/customers", h.HandleListCustomers)
	r.Get("/customers/{id}", h.HandleGetCustomer)
}

// HandleCreateCustomer registers a customer for the caller's tenant.
func (h *Handler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateCustomerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	customer, err := h.customers.CreateCustomer(ctx, req.ToCommand(actor.TenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "create customer failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// HandleListCustomers pages through the caller's customers. The search term
// matches name or phone substrings.
func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.CustomerFilter{
		Search: strings.TrimSpace(q.Get("search")),
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

	customers, total, err := h.customers.ListCustomers(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list customers failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCustomerListResponse(customers, total))
}

// HandleGetCustomer returns one customer of the caller's tenant. An ID
// belonging to another tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	customerID, err := id.ParseCustomerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer id"))
		return
	}

	customer, err := h.customers.GetCustomer(ctx, actor.TenantID, customerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get customer failed", "error", err, "request_id", requestID, "customer_id", customerID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// HandleUpdateCustomer applies a partial update to contact details.
func (h *Handler) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	customerID, err := id.ParseCustomerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateCustomerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	customer, err := h.customers.UpdateCustomer(ctx, actor.TenantID, customerID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update customer failed", "error", err, "request_id", requestID, "customer_id", customerID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCustomerResponse(customer))
}
