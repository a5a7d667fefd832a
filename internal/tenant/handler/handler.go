package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/tenant/models"
	"fieldpos/internal/tenant/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// TenantService defines the tenant operations the admin surface needs.
// Returns domain objects, not HTTP response DTOs.
type TenantService interface {
	CreateTenant(ctx context.Context, cmd *service.CreateTenantCommand) (*service.CreateTenantResult, error)
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.TenantDetails, error)
	ListTenants(ctx context.Context, filter models.TenantFilter) ([]*models.Tenant, int, error)
	UpdateTenant(ctx context.Context, tenantID id.TenantID, cmd *service.UpdateTenantCommand) (*models.Tenant, error)
	DeactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	ReactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// BranchService defines the branch operations the business surface needs.
// Every method is scoped to the caller's tenant.
type BranchService interface {
	CreateBranch(ctx context.Context, cmd *service.CreateBranchCommand) (*models.Branch, error)
	GetBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error)
	ListBranches(ctx context.Context, tenantID id.TenantID) ([]*models.Branch, error)
	UpdateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID, cmd *service.UpdateBranchCommand) (*models.Branch, error)
	DeactivateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error)
	ReactivateBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error)
}

type Handler struct {
	tenants  TenantService
	branches BranchService
	logger   *slog.Logger
}

func New(tenants TenantService, branches BranchService, logger *slog.Logger) *Handler {
	return &Handler{tenants: tenants, branches: branches, logger: logger}
}

// RegisterAdmin mounts tenant administration routes. The router group is
// expected to enforce the admin role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/tenants", h.HandleCreateTenant)
	r.Get("/tenants", h.HandleListTenants)
	r.Get("/tenants/{id}", h.HandleGetTenant)
	r.Put("/tenants/{id}", h.HandleUpdateTenant)
	r.Post("/tenants/{id}/deactivate", h.HandleDeactivateTenant)
	r.Post("/tenants/{id}/reactivate", h.HandleReactivateTenant)
}

// RegisterBusiness mounts branch management routes. The router group is
// expected to enforce the owner role; the tenant always comes from the
// authenticated actor.
func (h *Handler) RegisterBusiness(r chi.Router) {
	r.Post("/branches", h.HandleCreateBranch)
	r.Get("/branches", h.HandleListBranches)
	r.Get("/branches/{id}", h.HandleGetBranch)
	r.Put("/branches/{id}", h.HandleUpdateBranch)
	r.Post("/branches/{id}/deactivate", h.HandleDeactivateBranch)
	r.Post("/branches/{id}/reactivate", h.HandleReactivateBranch)
}

// HandleCreateTenant onboards a business with its default branch and owner.
func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.tenants.CreateTenant(ctx, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "create tenant failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &CreateTenantResponse{
		TenantID: result.Tenant.ID.String(),
		OwnerID:  result.OwnerID.String(),
		Tenant:   toTenantResponse(result.Tenant),
		Branch:   toBranchResponse(result.Branch),
	})
}

// HandleListTenants pages through tenants, optionally filtered by status and
// a name search term.
func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	q := r.URL.Query()
	filter := models.TenantFilter{
		Status: models.TenantStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
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

	tenants, total, err := h.tenants.ListTenants(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tenants failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantListResponse(tenants, total))
}

// HandleGetTenant returns tenant metadata with branch and staff counts.
func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	details, err := h.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantDetailsResponse(details))
}

// HandleUpdateTenant applies a partial profile update.
func (h *Handler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.tenants.UpdateTenant(ctx, tenantID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleDeactivateTenant suspends a tenant. All of its staff lose access on
// their next request.
func (h *Handler) HandleDeactivateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	tenant, err := h.tenants.DeactivateTenant(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "deactivate tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleReactivateTenant restores a suspended tenant.
func (h *Handler) HandleReactivateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	tenant, err := h.tenants.ReactivateTenant(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reactivate tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleCreateBranch adds a branch to the caller's tenant.
func (h *Handler) HandleCreateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateBranchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	branch, err := h.branches.CreateBranch(ctx, req.ToCommand(actor.TenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "create branch failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toBranchResponse(branch))
}

// HandleListBranches lists the caller's branches.
func (h *Handler) HandleListBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	branches, err := h.branches.ListBranches(ctx, actor.TenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list branches failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBranchListResponse(branches))
}

// HandleGetBranch returns one branch of the caller's tenant. A branch ID
// belonging to another tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
		return
	}

	branch, err := h.branches.GetBranch(ctx, actor.TenantID, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get branch failed", "error", err, "request_id", requestID, "branch_id", branchID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBranchResponse(branch))
}

// HandleUpdateBranch applies a partial profile update to one branch.
func (h *Handler) HandleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateBranchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	branch, err := h.branches.UpdateBranch(ctx, actor.TenantID, branchID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update branch failed", "error", err, "request_id", requestID, "branch_id", branchID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBranchResponse(branch))
}

// HandleDeactivateBranch closes a branch.
func (h *Handler) HandleDeactivateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
		return
	}

	branch, err := h.branches.DeactivateBranch(ctx, actor.TenantID, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "deactivate branch failed", "error", err, "request_id", requestID, "branch_id", branchID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBranchResponse(branch))
}

// HandleReactivateBranch reopens a branch.
func (h *Handler) HandleReactivateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
		return
	}

	branch, err := h.branches.ReactivateBranch(ctx, actor.TenantID, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reactivate branch failed", "error", err, "request_id", requestID, "branch_id", branchID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBranchResponse(branch))
}
