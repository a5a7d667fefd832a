package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/staff/models"
	"fieldpos/internal/staff/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// StaffService defines the staff operations the business surface needs.
// Every method is scoped to the caller's tenant.
type StaffService interface {
	CreateStaff(ctx context.Context, cmd *service.CreateStaffCommand) (*models.Staff, error)
	GetStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
	ListStaff(ctx context.Context, tenantID id.TenantID, filter models.StaffFilter) ([]*models.Staff, int, error)
	UpdateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID, cmd *service.UpdateStaffCommand) (*models.Staff, error)
	DeactivateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
	ReactivateStaff(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error)
}

// Authenticator verifies login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.Staff, error)
}

// TokenIssuer mints access tokens for authenticated staff.
type TokenIssuer interface {
	Generate(ctx context.Context, staffID id.StaffID, tenantID id.TenantID, branchID id.BranchID, role id.Role) (string, error)
	TokenTTL() time.Duration
}

type Handler struct {
	staff  StaffService
	auth   Authenticator
	tokens TokenIssuer
	logger *slog.Logger
}

func New(staff StaffService, auth Authenticator, tokens TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{staff: staff, auth: auth, tokens: tokens, logger: logger}
}

// RegisterBusiness mounts staff management routes. The router group is
// expected to enforce the owner role; the tenant always comes from the
// authenticated actor.
func (h *Handler) RegisterBusiness(r chi.Router) {
	r.Post("/staff", h.HandleCreateStaff)
	r.Get("/staff", h.HandleListStaff)
	r.Get("/staff/{id}", h.HandleGetStaff)
	r.Put("/staff/{id}", h.HandleUpdateStaff)
	r.Post("/staff/{id}/deactivate", h.HandleDeactivateStaff)
	r.Post("/staff/{id}/reactivate", h.HandleReactivateStaff)
}

// RegisterAuth mounts the public login route. Login is the only endpoint
// reachable without a token.
func (h *Handler) RegisterAuth(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// HandleLogin exchanges email and password for an access token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	staff, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		// Routine bad credentials land here too, so this is not an error log.
		h.logger.WarnContext(ctx, "login failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	token, err := h.tokens.Generate(ctx, staff.ID, staff.TenantID, staff.BranchID, staff.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed", "error", err, "request_id", requestID, "staff_id", staff.ID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.tokens.TokenTTL().Seconds()),
		Staff:     toStaffResponse(staff),
	})
}

// HandleCreateStaff adds a staff member to the caller's tenant.
func (h *Handler) HandleCreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateStaffRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	staff, err := h.staff.CreateStaff(ctx, req.ToCommand(actor.TenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "create staff failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toStaffResponse(staff))
}

// HandleListStaff pages through the caller's staff, optionally filtered by
// role, branch, status, and a name or email search term.
func (h *Handler) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.StaffFilter{
		Role:   id.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
		Status: models.StaffStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if branchStr := q.Get("branch_id"); branchStr != "" {
		branchID, err := id.ParseBranchID(branchStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
			return
		}
		filter.BranchID = branchID
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

	staff, total, err := h.staff.ListStaff(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list staff failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStaffListResponse(staff, total))
}

// HandleGetStaff returns one staff member of the caller's tenant. An ID
// belonging to another tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid staff id"))
		return
	}

	staff, err := h.staff.GetStaff(ctx, actor.TenantID, staffID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get staff failed", "error", err, "request_id", requestID, "staff_id", staffID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStaffResponse(staff))
}

// HandleUpdateStaff applies a partial update to profile or assignment.
func (h *Handler) HandleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid staff id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateStaffRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	staff, err := h.staff.UpdateStaff(ctx, actor.TenantID, staffID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update staff failed", "error", err, "request_id", requestID, "staff_id", staffID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStaffResponse(staff))
}

// HandleDeactivateStaff disables an account. The staff member keeps their
// sales history but can no longer sign in.
func (h *Handler) HandleDeactivateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid staff id"))
		return
	}

	staff, err := h.staff.DeactivateStaff(ctx, actor.TenantID, staffID)
	if err != nil {
		h.logger.ErrorContext(ctx, "deactivate staff failed", "error", err, "request_id", requestID, "staff_id", staffID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStaffResponse(staff))
}

// HandleReactivateStaff restores a disabled account.
func (h *Handler) HandleReactivateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid staff id"))
		return
	}

	staff, err := h.staff.ReactivateStaff(ctx, actor.TenantID, staffID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reactivate staff failed", "error", err, "request_id", requestID, "staff_id", staffID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStaffResponse(staff))
}
