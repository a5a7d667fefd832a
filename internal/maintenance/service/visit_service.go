package service

import (
	"context"
	"log/slog"
	"time"

	"fieldpos/internal/events"
	maintmetrics "fieldpos/internal/maintenance/metrics"
	"fieldpos/internal/maintenance/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// VisitService works the visit schedule: listing, rescheduling, assigning
// technicians, and closing visits out.
type VisitService struct {
	visits    VisitStore
	contracts ContractStore
	staff     StaffDirectory
	logger    *slog.Logger
	metrics   *maintmetrics.Metrics
	emitter   *eventEmitter
	tx        StoreTx
}

func NewVisitService(visits VisitStore, contracts ContractStore, opts ...Option) *VisitService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &VisitService{
		visits:    visits,
		contracts: contracts,
		staff:     cfg.staff,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		emitter:   newEventEmitter(cfg.logger, cfg.publisher),
		tx:        tx,
	}
}

// ListVisits returns visits for the tenant in schedule order.
func (s *VisitService) ListVisits(ctx context.Context, tenantID id.TenantID, filter models.VisitFilter) ([]*models.Visit, int, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, dErrors.NewValidation("validation failed", map[string]string{
			"status": "unknown status",
		})
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, 0, dErrors.NewValidation("validation failed", map[string]string{
			"from": "from must not be after to",
		})
	}
	filter.Limit = normalizeLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	visits, total, err := s.visits.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list visits")
	}
	return visits, total, nil
}

// RescheduleVisit moves a scheduled visit to a new date inside the
// contract's current period.
func (s *VisitService) RescheduleVisit(ctx context.Context, tenantID id.TenantID, visitID id.VisitID, newDate time.Time) (*models.Visit, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireVisitID(visitID); err != nil {
		return nil, err
	}
	if newDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "scheduled_date is required")
	}

	var visit *models.Visit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.visits.FindByTenantAndID(txCtx, tenantID, visitID)
		if err != nil {
			return wrapVisitErr(err)
		}
		contract, err := s.contracts.FindByTenantAndID(txCtx, tenantID, found.ContractID)
		if err != nil {
			return wrapContractErr(err)
		}

		date := dateOnly(newDate)
		if date.Before(dateOnly(contract.StartDate)) || date.After(dateOnly(contract.EndDate)) {
			return dErrors.NewValidation("validation failed", map[string]string{
				"scheduled_date": "date falls outside the contract period",
			})
		}

		now := requestcontext.Now(txCtx)
		if err := found.Reschedule(date, now); err != nil {
			return err
		}
		if err := s.visits.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reschedule visit")
		}
		visit = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "visit rescheduled",
			"visit_id", visit.ID,
			"tenant_id", visit.TenantID,
			"scheduled_date", visit.ScheduledDate.Format(time.DateOnly),
		)
	}
	return visit, nil
}

// CancelVisit cancels a single scheduled visit.
func (s *VisitService) CancelVisit(ctx context.Context, tenantID id.TenantID, visitID id.VisitID) (*models.Visit, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireVisitID(visitID); err != nil {
		return nil, err
	}

	var visit *models.Visit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.visits.FindByTenantAndID(txCtx, tenantID, visitID)
		if err != nil {
			return wrapVisitErr(err)
		}
		if err := found.Cancel(requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.visits.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel visit")
		}
		visit = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "visit cancelled",
			"visit_id", visit.ID,
			"tenant_id", visit.TenantID,
		)
	}
	return visit, nil
}

// AssignTechnician puts a technician on a scheduled visit. The staff member
// must be an active technician of the tenant.
func (s *VisitService) AssignTechnician(ctx context.Context, tenantID id.TenantID, visitID id.VisitID, technicianID id.StaffID) (*models.Visit, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireVisitID(visitID); err != nil {
		return nil, err
	}
	if technicianID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "technician_id is required")
	}

	var visit *models.Visit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkTechnician(txCtx, tenantID, technicianID); err != nil {
			return err
		}
		found, err := s.visits.FindByTenantAndID(txCtx, tenantID, visitID)
		if err != nil {
			return wrapVisitErr(err)
		}
		if err := found.Assign(technicianID, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.visits.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign technician")
		}
		visit = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "technician assigned",
			"visit_id", visit.ID,
			"tenant_id", visit.TenantID,
			"technician_id", technicianID,
		)
	}
	return visit, nil
}

// CompleteVisit closes a scheduled visit out with the technician's report.
// A visit assigned to someone else cannot be completed; an unassigned visit
// is taken over by whoever completes it.
func (s *VisitService) CompleteVisit(ctx context.Context, cmd *CompleteVisitCommand) (*models.Visit, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var visit *models.Visit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.visits.FindByTenantAndID(txCtx, cmd.TenantID, cmd.VisitID)
		if err != nil {
			return wrapVisitErr(err)
		}
		if found.IsAssigned() && found.TechnicianID != cmd.TechnicianID {
			return dErrors.New(dErrors.CodeConflict, "visit is assigned to another technician")
		}

		now := requestcontext.Now(txCtx)
		if !found.IsAssigned() {
			if err := found.Assign(cmd.TechnicianID, now); err != nil {
				return err
			}
		}
		if err := found.Complete(cmd.Report, now); err != nil {
			return err
		}
		if err := s.visits.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete visit")
		}
		visit = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VisitsCompleted.Inc()
	}
	s.emitter.emit(ctx, "visit.completed", events.AggregateVisit, visit.ID.String(), visit.TenantID, models.VisitCompleted{
		VisitID:      visit.ID,
		ContractID:   visit.ContractID,
		TenantID:     visit.TenantID,
		TechnicianID: visit.TechnicianID,
		Sequence:     visit.Sequence,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "visit completed",
			"visit_id", visit.ID,
			"tenant_id", visit.TenantID,
			"technician_id", visit.TechnicianID,
			"sequence", visit.Sequence,
		)
	}
	return visit, nil
}

func (s *VisitService) checkTechnician(ctx context.Context, tenantID id.TenantID, technicianID id.StaffID) error {
	if s.staff == nil {
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
