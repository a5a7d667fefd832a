package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// MaintenanceModelSuite tests contract and visit domain model behaviors.
type MaintenanceModelSuite struct {
	suite.Suite
}

func TestMaintenanceModelSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceModelSuite))
}

func (s *MaintenanceModelSuite) validItem() *ContractItem {
	item, err := NewContractItem(id.ContractItemID(uuid.New()), id.ProductID(uuid.New()),
		"Split AC 1.5 Ton", "AC-4451", 1, "")
	s.Require().NoError(err)
	return item
}

func (s *MaintenanceModelSuite) validContract(now time.Time) *Contract {
	contract, err := NewContract(id.ContractID(uuid.New()), id.TenantID(uuid.New()), id.BranchID(uuid.New()),
		id.CustomerID(uuid.New()), id.SaleID(uuid.Nil), id.StaffID(uuid.Nil),
		"CON-20260110-7F3A2B1C", FrequencyMonthly,
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		4, "", id.StaffID(uuid.New()), []*ContractItem{s.validItem()}, now)
	s.Require().NoError(err)
	return contract
}

func (s *MaintenanceModelSuite) TestNewContract() {
	now := time.Now()

	s.Run("valid contract starts active", func() {
		contract := s.validContract(now)
		s.Equal(ContractStatusActive, contract.Status)
		s.Equal(0, contract.RenewalCount)
		s.Equal(now, contract.CreatedAt)
		s.Equal(contract.ID, contract.Items[0].ContractID, "items are stamped with the contract")
	})

	s.Run("missing tenant rejected", func() {
		_, err := NewContract(id.ContractID(uuid.New()), id.TenantID(uuid.Nil), id.BranchID(uuid.New()),
			id.CustomerID(uuid.New()), id.SaleID(uuid.Nil), id.StaffID(uuid.Nil),
			"CON-X", FrequencyMonthly, now, now.AddDate(0, 3, 0), 4, "", id.StaffID(uuid.New()),
			[]*ContractItem{s.validItem()}, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("no items rejected", func() {
		_, err := NewContract(id.ContractID(uuid.New()), id.TenantID(uuid.New()), id.BranchID(uuid.New()),
			id.CustomerID(uuid.New()), id.SaleID(uuid.Nil), id.StaffID(uuid.Nil),
			"CON-X", FrequencyMonthly, now, now.AddDate(0, 3, 0), 4, "", id.StaffID(uuid.New()), nil, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("period ending before it starts rejected", func() {
		_, err := NewContract(id.ContractID(uuid.New()), id.TenantID(uuid.New()), id.BranchID(uuid.New()),
			id.CustomerID(uuid.New()), id.SaleID(uuid.Nil), id.StaffID(uuid.Nil),
			"CON-X", FrequencyMonthly, now, now.AddDate(0, -1, 0), 4, "", id.StaffID(uuid.New()),
			[]*ContractItem{s.validItem()}, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("unknown frequency rejected", func() {
		_, err := NewContract(id.ContractID(uuid.New()), id.TenantID(uuid.New()), id.BranchID(uuid.New()),
			id.CustomerID(uuid.New()), id.SaleID(uuid.Nil), id.StaffID(uuid.Nil),
			"CON-X", Frequency("biweekly"), now, now.AddDate(0, 3, 0), 4, "", id.StaffID(uuid.New()),
			[]*ContractItem{s.validItem()}, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *MaintenanceModelSuite) TestNewContractItem() {
	s.Run("missing product rejected", func() {
		_, err := NewContractItem(id.ContractItemID(uuid.New()), id.ProductID(uuid.Nil), "AC", "", 1, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("zero quantity rejected", func() {
		_, err := NewContractItem(id.ContractItemID(uuid.New()), id.ProductID(uuid.New()), "AC", "", 0, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *MaintenanceModelSuite) TestContractLifecycle() {
	now := time.Now()

	s.Run("expire ends an active contract once", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Expire(now))
		s.Equal(ContractStatusExpired, contract.Status)

		err := contract.Expire(now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("cancel ends an active contract once", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Cancel(now))
		s.Equal(ContractStatusCancelled, contract.Status)

		err := contract.Cancel(now)
		s.Require().Error(err)
	})

	s.Run("an expired contract cannot be cancelled", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Expire(now))
		s.Require().Error(contract.Cancel(now))
	})
}

func (s *MaintenanceModelSuite) TestRenew() {
	now := time.Now()
	newStart := time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	s.Run("active contract renews onto the new period", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Renew(newStart, newEnd, 3, now))
		s.Equal(ContractStatusActive, contract.Status)
		s.Equal(1, contract.RenewalCount)
		s.Equal(newStart, contract.StartDate)
		s.Equal(newEnd, contract.EndDate)
		s.Equal(3, contract.TotalVisits)
	})

	s.Run("expired contract renews back to active", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Expire(now))
		s.Require().NoError(contract.Renew(newStart, newEnd, 3, now))
		s.Equal(ContractStatusActive, contract.Status)
		s.Equal(1, contract.RenewalCount)
	})

	s.Run("cancelled contract stays cancelled", func() {
		contract := s.validContract(now)
		s.Require().NoError(contract.Cancel(now))
		err := contract.Renew(newStart, newEnd, 3, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("renewal must start after the old period", func() {
		contract := s.validContract(now)
		err := contract.Renew(contract.EndDate, newEnd, 3, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("renewal period cannot end before it starts", func() {
		contract := s.validContract(now)
		s.Require().Error(contract.Renew(newStart, newStart.AddDate(0, 0, -1), 3, now))
	})
}

func (s *MaintenanceModelSuite) TestFrequencySteps() {
	s.Run("all six frequencies are valid", func() {
		for _, f := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly,
			FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual} {
			s.True(f.Valid(), string(f))
		}
		s.False(Frequency("").Valid())
		s.False(Frequency("biweekly").Valid())
	})

	s.Run("day-based frequencies step in days", func() {
		step, ok := FrequencyDaily.DayStep()
		s.True(ok)
		s.Equal(1, step)

		step, ok = FrequencyWeekly.DayStep()
		s.True(ok)
		s.Equal(7, step)

		_, ok = FrequencyMonthly.DayStep()
		s.False(ok)
	})

	s.Run("month-based frequencies step in calendar months", func() {
		for f, want := range map[Frequency]int{
			FrequencyMonthly:    1,
			FrequencyQuarterly:  3,
			FrequencySemiAnnual: 6,
			FrequencyAnnual:     12,
		} {
			step, ok := f.MonthStep()
			s.True(ok, string(f))
			s.Equal(want, step, string(f))
		}
		_, ok := FrequencyWeekly.MonthStep()
		s.False(ok)
	})
}

func (s *MaintenanceModelSuite) validVisit(now time.Time) *Visit {
	visit, err := NewVisit(id.VisitID(uuid.New()), id.ContractID(uuid.New()), id.TenantID(uuid.New()),
		id.BranchID(uuid.New()), 1, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), id.StaffID(uuid.Nil), now)
	s.Require().NoError(err)
	return visit
}

func (s *MaintenanceModelSuite) TestNewVisit() {
	now := time.Now()

	s.Run("valid visit starts scheduled and unassigned", func() {
		visit := s.validVisit(now)
		s.Equal(VisitStatusScheduled, visit.Status)
		s.False(visit.IsAssigned())
	})

	s.Run("sequence below one rejected", func() {
		_, err := NewVisit(id.VisitID(uuid.New()), id.ContractID(uuid.New()), id.TenantID(uuid.New()),
			id.BranchID(uuid.New()), 0, time.Now(), id.StaffID(uuid.Nil), now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *MaintenanceModelSuite) TestVisitLifecycle() {
	now := time.Now()

	s.Run("complete closes a scheduled visit once", func() {
		visit := s.validVisit(now)
		s.Require().NoError(visit.Complete("filters replaced", now))
		s.Equal(VisitStatusCompleted, visit.Status)
		s.Equal("filters replaced", visit.Report)
		s.Require().NotNil(visit.CompletedAt)
		s.Equal(now, *visit.CompletedAt)

		s.Require().Error(visit.Complete("again", now))
	})

	s.Run("cancel and miss take scheduled visits only", func() {
		visit := s.validVisit(now)
		s.Require().NoError(visit.Cancel(now))
		s.Require().Error(visit.Miss(now))

		visit = s.validVisit(now)
		s.Require().NoError(visit.Miss(now))
		s.Equal(VisitStatusMissed, visit.Status)
		s.Require().Error(visit.Cancel(now))
	})

	s.Run("reschedule moves a scheduled visit", func() {
		visit := s.validVisit(now)
		moved := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
		s.Require().NoError(visit.Reschedule(moved, now))
		s.Equal(moved, visit.ScheduledDate)

		s.Require().NoError(visit.Cancel(now))
		s.Require().Error(visit.Reschedule(moved, now))
	})

	s.Run("assign requires a technician and a scheduled visit", func() {
		visit := s.validVisit(now)
		err := visit.Assign(id.StaffID(uuid.Nil), now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		technicianID := id.StaffID(uuid.New())
		s.Require().NoError(visit.Assign(technicianID, now))
		s.True(visit.IsAssigned())
		s.Equal(technicianID, visit.TechnicianID)

		s.Require().NoError(visit.Complete("done", now))
		s.Require().Error(visit.Assign(id.StaffID(uuid.New()), now))
	})
}
