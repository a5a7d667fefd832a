// Package service implements maintenance operations: opening contracts,
// renewing and cancelling them, and working the visit schedule they
// generate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldpos/internal/events"
	maintmetrics "fieldpos/internal/maintenance/metrics"
	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/maintenance/schedule"
	"fieldpos/internal/sentinel"
	"fieldpos/internal/tracer"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ContractService opens, renews, and cancels maintenance contracts. The
// contract, its items, and its full visit schedule land in one transaction,
// so a contract can never exist half-scheduled.
type ContractService struct {
	contracts ContractStore
	visits    VisitStore
	products  ProductDirectory
	customers CustomerDirectory
	branches  BranchDirectory
	sales     SaleDirectory
	staff     StaffDirectory
	logger    *slog.Logger
	metrics   *maintmetrics.Metrics
	tracer    tracer.Tracer
	emitter   *eventEmitter
	tx        StoreTx
}

func NewContractService(contracts ContractStore, visits VisitStore, products ProductDirectory, opts ...Option) *ContractService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	tr := cfg.tracer
	if tr == nil {
		tr = tracer.NewNoop()
	}
	return &ContractService{
		contracts: contracts,
		visits:    visits,
		products:  products,
		customers: cfg.customers,
		branches:  cfg.branches,
		sales:     cfg.sales,
		staff:     cfg.staff,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		tracer:    tr,
		emitter:   newEventEmitter(cfg.logger, cfg.publisher),
		tx:        tx,
	}
}

// CreateContract opens a contract. Items are snapshotted from the catalog,
// the visit count and dates derive from the frequency and period, and the
// contract, items, and schedule are written in one transaction.
func (s *ContractService) CreateContract(ctx context.Context, cmd *CreateContractCommand) (*models.Contract, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	start := dateOnly(cmd.StartDate)
	end := dateOnly(cmd.EndDate)
	total, err := schedule.CountVisits(cmd.Frequency, start, end)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "cannot derive visit schedule")
	}
	if total > maxScheduleVisits {
		return nil, dErrors.NewValidation("validation failed", map[string]string{
			"end_date": "period generates too many visits for the chosen frequency",
		})
	}
	dates, err := schedule.BuildSchedule(cmd.Frequency, start, end, total)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build visit schedule")
	}

	contractID := id.ContractID(uuid.New())

	ctx, span := s.tracer.Start(ctx, tracer.SpanContractCreate,
		tracer.String(tracer.AttrTenantID, cmd.TenantID.String()),
		tracer.String(tracer.AttrContractID, contractID.String()),
		tracer.String(tracer.AttrFrequency, string(cmd.Frequency)),
		tracer.Int(tracer.AttrTotalVisits, total),
	)

	var contract *models.Contract
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkBranch(txCtx, cmd.TenantID, cmd.BranchID); err != nil {
			return err
		}
		if err := s.checkCustomer(txCtx, cmd.TenantID, cmd.CustomerID); err != nil {
			return err
		}
		if err := s.checkSaleLink(txCtx, cmd.TenantID, cmd.CustomerID, cmd.SaleID); err != nil {
			return err
		}
		if err := s.checkTechnician(txCtx, cmd.TenantID, cmd.TechnicianID); err != nil {
			return err
		}

		now := requestcontext.Now(txCtx)

		items := make([]*models.ContractItem, 0, len(cmd.Items))
		for i, line := range cmd.Items {
			ref, err := s.products.ProductForContract(txCtx, cmd.TenantID, line.ProductID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return itemError(i, "product does not exist")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve contract item")
			}
			if !ref.Active {
				return itemError(i, "product is inactive")
			}
			if !ref.Maintainable {
				return itemError(i, "product is not covered by maintenance")
			}
			item, err := models.NewContractItem(id.ContractItemID(uuid.New()), ref.ID, ref.Name, line.SerialNo, line.Quantity, line.Notes)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		created, err := models.NewContract(contractID, cmd.TenantID, cmd.BranchID, cmd.CustomerID, cmd.SaleID, cmd.TechnicianID,
			contractNumber(now, contractID), cmd.Frequency, start, end, total, cmd.Notes, cmd.CreatedBy, items, now)
		if err != nil {
			return err
		}

		visits, err := buildVisits(created, dates, 1, now)
		if err != nil {
			return err
		}
		created.Visits = visits

		if err := s.contracts.Create(txCtx, created); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "contract number already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create contract")
		}
		if err := s.visits.CreateBatch(txCtx, visits); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to schedule visits")
		}

		contract = created
		return nil
	})
	span.End(err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ContractsCreated.Inc()
	}
	s.emitter.emit(ctx, "contract.created", events.AggregateContract, contract.ID.String(), contract.TenantID, models.ContractCreated{
		ContractID:  contract.ID,
		TenantID:    contract.TenantID,
		BranchID:    contract.BranchID,
		CustomerID:  contract.CustomerID,
		ContractNo:  contract.ContractNo,
		Frequency:   contract.Frequency,
		TotalVisits: contract.TotalVisits,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "contract created",
			"contract_id", contract.ID,
			"tenant_id", contract.TenantID,
			"contract_no", contract.ContractNo,
			"frequency", contract.Frequency,
			"total_visits", contract.TotalVisits,
		)
	}
	return contract, nil
}

// GetContract returns the contract with its items and full visit history.
func (s *ContractService) GetContract(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireContractID(contractID); err != nil {
		return nil, err
	}
	contract, err := s.contracts.FindByTenantAndID(ctx, tenantID, contractID)
	if err != nil {
		return nil, wrapContractErr(err)
	}
	if err := s.attachVisits(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// ListContracts returns contract summaries for the tenant, newest first.
func (s *ContractService) ListContracts(ctx context.Context, tenantID id.TenantID, filter models.ContractFilter) ([]*models.Contract, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, dErrors.NewValidation("validation failed", map[string]string{
			"status": "unknown status",
		})
	}
	filter.Limit = normalizeLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	contracts, total, err := s.contracts.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	return contracts, total, nil
}

// RenewContract opens a new period on an active or expired contract: the
// visit count is recomputed for the new dates and a fresh schedule is
// appended with sequence numbers continuing after the old ones. Historical
// visits stay untouched.
func (s *ContractService) RenewContract(ctx context.Context, cmd *RenewContractCommand) (*models.Contract, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanContractRenew,
		tracer.String(tracer.AttrTenantID, cmd.TenantID.String()),
		tracer.String(tracer.AttrContractID, cmd.ContractID.String()),
	)

	var contract *models.Contract
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.contracts.FindByTenantAndID(txCtx, cmd.TenantID, cmd.ContractID)
		if err != nil {
			return wrapContractErr(err)
		}

		start := dateOnly(cmd.StartDate)
		if cmd.StartDate.IsZero() {
			// Renewals pick up the day after the old period ends unless
			// the caller chose a later start.
			start = dateOnly(found.EndDate).AddDate(0, 0, 1)
		}
		end := dateOnly(cmd.EndDate)
		if end.Before(start) {
			return dErrors.NewValidation("validation failed", map[string]string{
				"end_date": "end_date cannot be before start_date",
			})
		}
		if !start.After(dateOnly(found.EndDate)) {
			return dErrors.NewValidation("validation failed", map[string]string{
				"start_date": "renewal must start after the current period ends",
			})
		}

		total, err := schedule.CountVisits(found.Frequency, start, end)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "cannot derive visit schedule")
		}
		if total > maxScheduleVisits {
			return dErrors.NewValidation("validation failed", map[string]string{
				"end_date": "period generates too many visits for the chosen frequency",
			})
		}
		dates, err := schedule.BuildSchedule(found.Frequency, start, end, total)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build visit schedule")
		}

		history, _, err := s.visits.ListByTenant(txCtx, cmd.TenantID, models.VisitFilter{ContractID: found.ID})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load visit history")
		}

		now := requestcontext.Now(txCtx)
		if err := found.Renew(start, end, total, now); err != nil {
			return err
		}

		visits, err := buildVisits(found, dates, nextSequence(history), now)
		if err != nil {
			return err
		}

		if err := s.contracts.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew contract")
		}
		if err := s.visits.CreateBatch(txCtx, visits); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to schedule visits")
		}

		found.Visits = append(history, visits...)
		contract = found
		return nil
	})
	span.End(err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ContractsRenewed.Inc()
	}
	s.emitter.emit(ctx, "contract.renewed", events.AggregateContract, contract.ID.String(), contract.TenantID, models.ContractRenewed{
		ContractID:   contract.ID,
		TenantID:     contract.TenantID,
		ContractNo:   contract.ContractNo,
		RenewalCount: contract.RenewalCount,
		StartDate:    contract.StartDate,
		EndDate:      contract.EndDate,
		TotalVisits:  contract.TotalVisits,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "contract renewed",
			"contract_id", contract.ID,
			"tenant_id", contract.TenantID,
			"renewal_count", contract.RenewalCount,
			"total_visits", contract.TotalVisits,
		)
	}
	return contract, nil
}

// CancelContract ends an active contract early and cancels every scheduled
// visit remaining under it.
func (s *ContractService) CancelContract(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireContractID(contractID); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanContractCancel,
		tracer.String(tracer.AttrTenantID, tenantID.String()),
		tracer.String(tracer.AttrContractID, contractID.String()),
	)

	var (
		contract  *models.Contract
		cancelled int
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.contracts.FindByTenantAndID(txCtx, tenantID, contractID)
		if err != nil {
			return wrapContractErr(err)
		}
		now := requestcontext.Now(txCtx)
		if err := found.Cancel(now); err != nil {
			return err
		}
		cancelled, err = s.visits.CancelScheduled(txCtx, found.ID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel scheduled visits")
		}
		if err := s.contracts.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel contract")
		}
		contract = found
		return nil
	})
	span.End(err)
	if err != nil {
		return nil, err
	}

	s.emitter.emit(ctx, "contract.cancelled", events.AggregateContract, contract.ID.String(), contract.TenantID, models.ContractCancelled{
		ContractID:      contract.ID,
		TenantID:        contract.TenantID,
		ContractNo:      contract.ContractNo,
		CancelledVisits: cancelled,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "contract cancelled",
			"contract_id", contract.ID,
			"tenant_id", contract.TenantID,
			"cancelled_visits", cancelled,
		)
	}
	return contract, nil
}

// attachVisits loads the contract's visits in schedule order.
func (s *ContractService) attachVisits(ctx context.Context, contract *models.Contract) error {
	visits, _, err := s.visits.ListByTenant(ctx, contract.TenantID, models.VisitFilter{ContractID: contract.ID})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load visits")
	}
	contract.Visits = visits
	return nil
}

func (s *ContractService) checkBranch(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) error {
	if s.branches == nil {
		return nil
	}
	exists, err := s.branches.BranchExists(ctx, tenantID, branchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify branch")
	}
	if !exists {
		return dErrors.NewValidation("validation failed", map[string]string{
			"branch_id": "branch does not exist",
		})
	}
	return nil
}

func (s *ContractService) checkCustomer(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) error {
	if s.customers == nil {
		return nil
	}
	exists, err := s.customers.CustomerExists(ctx, tenantID, customerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify customer")
	}
	if !exists {
		return dErrors.NewValidation("validation failed", map[string]string{
			"customer_id": "customer does not exist",
		})
	}
	return nil
}

// checkSaleLink verifies the optional register sale belongs to the tenant
// and the same customer the contract covers.
func (s *ContractService) checkSaleLink(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID, saleID id.SaleID) error {
	if saleID.IsNil() || s.sales == nil {
		return nil
	}
	ref, err := s.sales.SaleForContract(ctx, tenantID, saleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.NewValidation("validation failed", map[string]string{
				"sale_id": "sale does not exist",
			})
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify sale link")
	}
	if ref.CustomerID.IsNil() || ref.CustomerID != customerID {
		return dErrors.NewValidation("validation failed", map[string]string{
			"sale_id": "sale belongs to a different customer",
		})
	}
	return nil
}

func (s *ContractService) checkTechnician(ctx context.Context, tenantID id.TenantID, technicianID id.StaffID) error {
	if technicianID.IsNil() || s.staff == nil {
		return nil
	}
	ok, err := s.staff.IsTechnician(ctx, tenantID, technicianID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify technician")
	}
	if !ok {
		return dErrors.NewValidation("validation failed", map[string]string{
			"technician_id": "staff member is not an active technician",
		})
	}
	return nil
}

// buildVisits turns schedule dates into visit rows, numbering from
// firstSequence. The contract's default technician lands on every visit.
func buildVisits(contract *models.Contract, dates []time.Time, firstSequence int, now time.Time) ([]*models.Visit, error) {
	visits := make([]*models.Visit, 0, len(dates))
	for i, date := range dates {
		visit, err := models.NewVisit(id.VisitID(uuid.New()), contract.ID, contract.TenantID, contract.BranchID,
			firstSequence+i, date, contract.TechnicianID, now)
		if err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// nextSequence returns one past the highest sequence ever issued for the
// contract, counting cancelled and missed visits too.
func nextSequence(history []*models.Visit) int {
	next := 1
	for _, v := range history {
		if v.Sequence >= next {
			next = v.Sequence + 1
		}
	}
	return next
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func itemError(index int, msg string) error {
	return dErrors.NewValidation("validation failed", map[string]string{
		fmt.Sprintf("items[%d].product_id", index): msg,
	})
}

// contractNumber derives the agreement number from the creation time and
// ID: CON-20260314-7F3A2B1C. The ID suffix keeps it unique without a
// counter row; the date keeps it meaningful on paper.
func contractNumber(now time.Time, contractID id.ContractID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(contractID.String(), "-", ""))
	return fmt.Sprintf("CON-%s-%s", now.Format("20060102"), suffix[:8])
}
