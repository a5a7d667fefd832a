package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/maintenance/service"
	contractstore "fieldpos/internal/maintenance/store/contract"
	visitstore "fieldpos/internal/maintenance/store/visit"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/requestcontext"
)

type fakeSweeper struct {
	runs   chan struct{}
	result *service.SweepResult
	err    error
}

func (f *fakeSweeper) Run(context.Context) (*service.SweepResult, error) {
	if f.runs != nil {
		select {
		case f.runs <- struct{}{}:
		default:
		}
	}
	return f.result, f.err
}

func TestNew_RequiresSweeper(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestOptions_IgnoreInvalidValues(t *testing.T) {
	svc, err := New(&fakeSweeper{}, WithInterval(0), WithLogger(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.interval, "a zero interval keeps the default")
	assert.NotNil(t, svc.logger)

	svc, err = New(&fakeSweeper{}, WithInterval(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, svc.interval)
}

func TestRunOnce_Integration(t *testing.T) {
	ctx := context.Background()

	contracts := contractstore.NewInMemory()
	visits := visitstore.NewInMemory()
	products := &fakeProducts{}
	contractSvc := service.NewContractService(contracts, visits, products)
	tenantID := id.TenantID(uuid.New())

	lapsed, err := contractSvc.CreateContract(ctx, &service.CreateContractCommand{
		TenantID:   tenantID,
		BranchID:   id.BranchID(uuid.New()),
		CustomerID: id.CustomerID(uuid.New()),
		Frequency:  models.FrequencyMonthly,
		StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		CreatedBy:  id.StaffID(uuid.New()),
		Items:      []service.ContractItemLine{{ProductID: products.id(), Quantity: 1}},
	})
	require.NoError(t, err)

	worker, err := New(service.NewSweeper(contracts, visits), WithInterval(10*time.Second))
	require.NoError(t, err)

	sweepCtx := requestcontext.WithNow(ctx, time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC))
	result, err := worker.RunOnce(sweepCtx)
	require.NoError(t, err)
	require.Equal(t, 1, result.ExpiredContracts)
	require.Equal(t, 4, result.CancelledVisits)
	require.Equal(t, 0, result.MissedVisits)

	stored, err := contracts.FindByTenantAndID(ctx, tenantID, lapsed.ID)
	require.NoError(t, err)
	require.Equal(t, models.ContractStatusExpired, stored.Status)
}

func TestStart_TicksAndStopsOnCancel(t *testing.T) {
	sweeper := &fakeSweeper{runs: make(chan struct{}, 1), result: &service.SweepResult{}}
	worker, err := New(sweeper, WithInterval(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	select {
	case <-sweeper.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("the ticker never fired a sweep")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestStart_KeepsTickingPastFailures(t *testing.T) {
	sweeper := &fakeSweeper{runs: make(chan struct{}, 2), err: assert.AnError}
	worker, err := New(sweeper, WithInterval(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Start(ctx) }()

	for range 2 {
		select {
		case <-sweeper.runs:
		case <-time.After(2 * time.Second):
			t.Fatal("a failed sweep stopped the ticker")
		}
	}
}

// fakeProducts hands out one maintainable product for seeding.
type fakeProducts struct {
	productID id.ProductID
}

func (f *fakeProducts) id() id.ProductID {
	if f.productID.IsNil() {
		f.productID = id.ProductID(uuid.New())
	}
	return f.productID
}

func (f *fakeProducts) ProductForContract(_ context.Context, _ id.TenantID, productID id.ProductID) (*service.ProductRef, error) {
	return &service.ProductRef{ID: productID, Name: "Split AC Unit", Maintainable: true, Active: true}, nil
}
