// Package handler exposes the maintenance scheduling endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/maintenance/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// ContractService defines the contract operations the API surfaces need.
// Every method is scoped to the caller's tenant.
type ContractService interface {
	CreateContract(ctx context.Context, cmd *service.CreateContractCommand) (*models.Contract, error)
	GetContract(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error)
	ListContracts(ctx context.Context, tenantID id.TenantID, filter models.ContractFilter) ([]*models.Contract, int, error)
	RenewContract(ctx context.Context, cmd *service.RenewContractCommand) (*models.Contract, error)
	CancelContract(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error)
}

// VisitService defines the visit operations the API surfaces need.
type VisitService interface {
	ListVisits(ctx context.Context, tenantID id.TenantID, filter models.VisitFilter) ([]*models.Visit, int, error)
	RescheduleVisit(ctx context.Context, tenantID id.TenantID, visitID id.VisitID, newDate time.Time) (*models.Visit, error)
	CancelVisit(ctx context.Context, tenantID id.TenantID, visitID id.VisitID) (*models.Visit, error)
	AssignTechnician(ctx context.Context, tenantID id.TenantID, visitID id.VisitID, technicianID id.StaffID) (*models.Visit, error)
	CompleteVisit(ctx context.Context, cmd *service.CompleteVisitCommand) (*models.Visit, error)
}

// Sweeper runs the contract expiry and missed-visit sweep on demand.
type Sweeper interface {
	Run(ctx context.Context) (*service.SweepResult, error)
}

type Handler struct {
	contracts ContractService
	visits    VisitService
	sweeper   Sweeper
	logger    *slog.Logger
}

func New(contracts ContractService, visits VisitService, sweeper Sweeper, logger *slog.Logger) *Handler {
	return &Handler{contracts: contracts, visits: visits, sweeper: sweeper, logger: logger}
}

// RegisterContractRead mounts the contract browsing routes.
func (h *Handler) RegisterContractRead(r chi.Router) {
	r.Get("/contracts", h.HandleListContracts)
	r.Get("/contracts/{id}", h.HandleGetContract)
}

// RegisterContractManage mounts the contract lifecycle routes.
func (h *Handler) RegisterContractManage(r chi.Router) {
	r.Post("/contracts", h.HandleCreateContract)
	r.Post("/contracts/{id}/renew", h.HandleRenewContract)
	r.Post("/contracts/{id}/cancel", h.HandleCancelContract)
}

// RegisterVisitManage mounts the scheduling routes the maintenance desk uses.
func (h *Handler) RegisterVisitManage(r chi.Router) {
	r.Get("/visits", h.HandleListVisits)
	r.Post("/visits/{id}/reschedule", h.HandleRescheduleVisit)
	r.Post("/visits/{id}/cancel", h.HandleCancelVisit)
	r.Post("/visits/{id}/assign", h.HandleAssignTechnician)
}

// RegisterTechnician mounts the field-side routes. Listing is the same
// endpoint the desk uses; the technician role pins it to their own work.
func (h *Handler) RegisterTechnician(r chi.Router) {
	r.Get("/visits", h.HandleListVisits)
	r.Post("/visits/{id}/complete", h.HandleCompleteVisit)
}

// RegisterSweep mounts the manual sweep trigger for operators.
func (h *Handler) RegisterSweep(r chi.Router) {
	r.Post("/maintenance/sweep", h.HandleRunSweep)
}

// HandleCreateContract opens a maintenance contract and books its visit
// schedule in one shot.
func (h *Handler) HandleCreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract, err := h.contracts.CreateContract(ctx, req.ToCommand(actor))
	if err != nil {
		h.logger.ErrorContext(ctx, "create contract failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toContractResponse(contract))
}

// HandleListContracts pages through the tenant's contracts, newest first.
func (h *Handler) HandleListContracts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.ContractFilter{
		Status: models.ContractStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
	}
	if customerStr := q.Get("customer_id"); customerStr != "" {
		customerID, err := id.ParseCustomerID(customerStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer id"))
			return
		}
		filter.CustomerID = customerID
	}
	if branchStr := q.Get("branch_id"); branchStr != "" {
		branchID, err := id.ParseBranchID(branchStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
			return
		}
		filter.BranchID = branchID
	}
	if beforeStr := q.Get("expiring_before"); beforeStr != "" {
		before, err := time.Parse("2006-01-02", beforeStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid expiring_before date, expected YYYY-MM-DD"))
			return
		}
		filter.ExpiringBefore = before
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

	contracts, total, err := h.contracts.ListContracts(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contracts failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractListResponse(contracts, total))
}

// HandleGetContract returns one contract with its covered items and full
// visit history. An ID belonging to another tenant is indistinguishable from
// a missing one.
func (h *Handler) HandleGetContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contract id"))
		return
	}

	contract, err := h.contracts.GetContract(ctx, actor.TenantID, contractID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get contract failed", "error", err, "request_id", requestID, "contract_id", contractID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractResponse(contract))
}

// HandleRenewContract extends an active contract into a new period and books
// the follow-on visits.
func (h *Handler) HandleRenewContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contract id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RenewContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract, err := h.contracts.RenewContract(ctx, req.ToCommand(actor, contractID))
	if err != nil {
		h.logger.ErrorContext(ctx, "renew contract failed", "error", err, "request_id", requestID, "contract_id", contractID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractResponse(contract))
}

// HandleCancelContract cancels a contract and its remaining scheduled visits.
func (h *Handler) HandleCancelContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contract id"))
		return
	}

	contract, err := h.contracts.CancelContract(ctx, actor.TenantID, contractID)
	if err != nil {
		h.logger.ErrorContext(ctx, "cancel contract failed", "error", err, "request_id", requestID, "contract_id", contractID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractResponse(contract))
}

// HandleListVisits pages through the tenant's visits in schedule order.
// Technicians see their own assignments only; other roles filter freely.
func (h *Handler) HandleListVisits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.VisitFilter{
		Status: models.VisitStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
	}
	if contractStr := q.Get("contract_id"); contractStr != "" {
		contractID, err := id.ParseContractID(contractStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contract id"))
			return
		}
		filter.ContractID = contractID
	}
	if technicianStr := q.Get("technician_id"); technicianStr != "" {
		technicianID, err := id.ParseStaffID(technicianStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid technician id"))
			return
		}
		filter.TechnicianID = technicianID
	}
	if branchStr := q.Get("branch_id"); branchStr != "" {
		branchID, err := id.ParseBranchID(branchStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid branch id"))
			return
		}
		filter.BranchID = branchID
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
		// Scheduled dates carry no time of day, so the bound is already
		// inclusive.
		filter.To = to
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

	if actor.Role == id.RoleTechnician {
		filter.TechnicianID = actor.StaffID
	}

	visits, total, err := h.visits.ListVisits(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list visits failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVisitListResponse(visits, total))
}

// HandleRescheduleVisit moves a scheduled visit to another date inside the
// contract period.
func (h *Handler) HandleRescheduleVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visitID, err := id.ParseVisitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid visit id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RescheduleVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.visits.RescheduleVisit(ctx, actor.TenantID, visitID, req.Date())
	if err != nil {
		h.logger.ErrorContext(ctx, "reschedule visit failed", "error", err, "request_id", requestID, "visit_id", visitID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVisitResponse(visit))
}

// HandleCancelVisit cancels a single scheduled visit.
func (h *Handler) HandleCancelVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visitID, err := id.ParseVisitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid visit id"))
		return
	}

	visit, err := h.visits.CancelVisit(ctx, actor.TenantID, visitID)
	if err != nil {
		h.logger.ErrorContext(ctx, "cancel visit failed", "error", err, "request_id", requestID, "visit_id", visitID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVisitResponse(visit))
}

// HandleAssignTechnician puts a technician on a scheduled visit.
func (h *Handler) HandleAssignTechnician(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visitID, err := id.ParseVisitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid visit id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AssignTechnicianRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.visits.AssignTechnician(ctx, actor.TenantID, visitID, req.StaffID())
	if err != nil {
		h.logger.ErrorContext(ctx, "assign technician failed", "error", err, "request_id", requestID, "visit_id", visitID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVisitResponse(visit))
}

// HandleCompleteVisit records the caller's finished visit with its report.
func (h *Handler) HandleCompleteVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visitID, err := id.ParseVisitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid visit id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CompleteVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.visits.CompleteVisit(ctx, req.ToCommand(actor, visitID))
	if err != nil {
		h.logger.ErrorContext(ctx, "complete visit failed", "error", err, "request_id", requestID, "visit_id", visitID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVisitResponse(visit))
}

// HandleRunSweep triggers the expiry sweep outside its normal schedule and
// reports what it swept.
func (h *Handler) HandleRunSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, err := httputil.RequireActor(ctx, h.logger, requestID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.sweeper.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual sweep failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
