package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldpos/internal/events"
	maintmetrics "fieldpos/internal/maintenance/metrics"
	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/notify"
	"fieldpos/internal/tracer"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

// sweepBatchSize bounds one store scan of the sweep.
const sweepBatchSize = 100

// Sweeper runs the periodic maintenance pass: active contracts whose end
// date has passed become expired with their remaining scheduled visits
// cancelled, and scheduled visits whose date passed without completion
// become missed. Each contract is handled in its own transaction so one
// bad row cannot hold the whole sweep back.
type Sweeper struct {
	contracts ContractStore
	visits    VisitStore
	notifier  notify.Notifier
	logger    *slog.Logger
	metrics   *maintmetrics.Metrics
	tracer    tracer.Tracer
	emitter   *eventEmitter
	tx        StoreTx
}

func NewSweeper(contracts ContractStore, visits VisitStore, opts ...Option) *Sweeper {
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
	return &Sweeper{
		contracts: contracts,
		visits:    visits,
		notifier:  cfg.notifier,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		tracer:    tr,
		emitter:   newEventEmitter(cfg.logger, cfg.publisher),
		tx:        tx,
	}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	ExpiredContracts int `json:"expired_contracts"`
	CancelledVisits  int `json:"cancelled_visits"`
	MissedVisits     int `json:"missed_visits"`
}

// Run executes one full sweep. A contract ending today is still inside its
// period until midnight, so the cutoff is the start of the current day.
// Run keeps going past individual failures and returns them joined.
func (s *Sweeper) Run(ctx context.Context) (*SweepResult, error) {
	cutoff := dateOnly(requestcontext.Now(ctx))

	ctx, span := s.tracer.Start(ctx, tracer.SpanSweep)
	started := time.Now()

	result := &SweepResult{}
	var errs []error
	// Expiry runs first: visits cancelled here are off the schedule before
	// the missed pass scans it.
	if err := s.expirePass(ctx, cutoff, span, result); err != nil {
		errs = append(errs, err)
	}
	if err := s.missedPass(ctx, cutoff, result); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)

	span.SetAttributes(
		tracer.Int(tracer.AttrExpiredContracts, result.ExpiredContracts),
		tracer.Int(tracer.AttrCancelledVisits, result.CancelledVisits),
		tracer.Int(tracer.AttrMissedVisits, result.MissedVisits),
	)
	span.End(err)

	if s.metrics != nil {
		s.metrics.ObserveSweep(result.ExpiredContracts, result.MissedVisits, time.Since(started))
	}
	if s.logger != nil {
		if err != nil {
			s.logger.ErrorContext(ctx, "maintenance sweep finished with errors",
				"expired_contracts", result.ExpiredContracts,
				"cancelled_visits", result.CancelledVisits,
				"missed_visits", result.MissedVisits,
				"error", err,
			)
		} else {
			s.logger.InfoContext(ctx, "maintenance sweep finished",
				"expired_contracts", result.ExpiredContracts,
				"cancelled_visits", result.CancelledVisits,
				"missed_visits", result.MissedVisits,
				"took", time.Since(started),
			)
		}
	}
	return result, err
}

func (s *Sweeper) expirePass(ctx context.Context, cutoff time.Time, span tracer.Span, result *SweepResult) error {
	var errs []error
	for {
		batch, err := s.contracts.ListExpired(ctx, cutoff, sweepBatchSize)
		if err != nil {
			errs = append(errs, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan expired contracts"))
			break
		}
		if len(batch) == 0 {
			break
		}

		succeeded := 0
		for _, candidate := range batch {
			expired, cancelled, err := s.expireContract(ctx, candidate, cutoff)
			if err != nil {
				errs = append(errs, fmt.Errorf("contract %s: %w", candidate.ID, err))
				continue
			}
			succeeded++
			if expired == nil {
				continue
			}

			result.ExpiredContracts++
			result.CancelledVisits += cancelled
			span.AddEvent(tracer.EventContractExpired,
				tracer.String(tracer.AttrContractID, expired.ID.String()),
				tracer.Int(tracer.AttrCancelledVisits, cancelled),
			)
			s.notifyExpired(ctx, expired, cancelled)
			s.emitter.emit(ctx, "contract.expired", events.AggregateContract, expired.ID.String(), expired.TenantID, models.ContractExpired{
				ContractID:      expired.ID,
				TenantID:        expired.TenantID,
				ContractNo:      expired.ContractNo,
				EndDate:         expired.EndDate,
				CancelledVisits: cancelled,
			})
		}

		// A failed contract stays in the scan, so stop when a full batch
		// makes no progress rather than spin on it.
		if len(batch) < sweepBatchSize || succeeded == 0 {
			break
		}
	}
	return errors.Join(errs...)
}

// expireContract re-reads the contract inside its transaction: a renewal
// racing the sweep wins, and the contract is skipped (nil, 0, nil).
func (s *Sweeper) expireContract(ctx context.Context, candidate *models.Contract, cutoff time.Time) (*models.Contract, int, error) {
	var (
		expired   *models.Contract
		cancelled int
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.contracts.FindByTenantAndID(txCtx, candidate.TenantID, candidate.ID)
		if err != nil {
			return wrapContractErr(err)
		}
		if !found.IsActive() || !dateOnly(found.EndDate).Before(cutoff) {
			return nil
		}

		now := requestcontext.Now(txCtx)
		if err := found.Expire(now); err != nil {
			return err
		}
		cancelled, err = s.visits.CancelScheduled(txCtx, found.ID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel scheduled visits")
		}
		if err := s.contracts.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire contract")
		}
		expired = found
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return expired, cancelled, nil
}

func (s *Sweeper) missedPass(ctx context.Context, cutoff time.Time, result *SweepResult) error {
	var errs []error
	for {
		batch, err := s.visits.ListOverdue(ctx, cutoff, sweepBatchSize)
		if err != nil {
			errs = append(errs, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan overdue visits"))
			break
		}
		if len(batch) == 0 {
			break
		}

		succeeded := 0
		for _, candidate := range batch {
			missed, err := s.missVisit(ctx, candidate, cutoff)
			if err != nil {
				errs = append(errs, fmt.Errorf("visit %s: %w", candidate.ID, err))
				continue
			}
			succeeded++
			if missed {
				result.MissedVisits++
			}
		}

		if len(batch) < sweepBatchSize || succeeded == 0 {
			break
		}
	}
	return errors.Join(errs...)
}

func (s *Sweeper) missVisit(ctx context.Context, candidate *models.Visit, cutoff time.Time) (bool, error) {
	missed := false
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.visits.FindByTenantAndID(txCtx, candidate.TenantID, candidate.ID)
		if err != nil {
			return wrapVisitErr(err)
		}
		if !found.IsScheduled() || !dateOnly(found.ScheduledDate).Before(cutoff) {
			return nil
		}
		if err := found.Miss(requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.visits.Update(txCtx, found); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark visit missed")
		}
		missed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return missed, nil
}

// notifyExpired fires the expiry notification. Delivery is best-effort; a
// failed channel is logged and the sweep moves on.
func (s *Sweeper) notifyExpired(ctx context.Context, contract *models.Contract, cancelled int) {
	if s.notifier == nil {
		return
	}
	n := notify.Notification{
		Type:     "contract.expired",
		TenantID: contract.TenantID.String(),
		Subject:  fmt.Sprintf("Maintenance contract %s expired", contract.ContractNo),
		Body:     fmt.Sprintf("The contract period ended on %s; %d scheduled visits were cancelled.", contract.EndDate.Format(time.DateOnly), cancelled),
		Meta: map[string]string{
			"contract_id": contract.ID.String(),
			"contract_no": contract.ContractNo,
		},
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := s.notifier.Notify(ctx, n); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to deliver expiry notification",
			"contract_id", contract.ID,
			"tenant_id", contract.TenantID,
			"error", err,
		)
	}
}
