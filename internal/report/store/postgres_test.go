package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/report/models"
	id "fieldpos/pkg/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Postgres) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgres(db)
}

func testQuery(from, to time.Time) models.SalesQuery {
	return models.SalesQuery{Period: models.Period{From: from, To: to}}
}

func TestPostgresSalesTotals(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// The upper bound binds as the day after To, half-open.
	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs(uuid.UUID(tenantID), from, to.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "count"}).AddRow(4750.0, 19))

	totals, err := src.SalesTotals(context.Background(), tenantID, testQuery(from, to))
	require.NoError(t, err)
	assert.Equal(t, models.SalesTotals{Revenue: 4750, SaleCount: 19}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSalesTotals_BranchScoped(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	branchID := id.BranchID(uuid.New())
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs(uuid.UUID(tenantID), from, to.AddDate(0, 0, 1), uuid.UUID(branchID)).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "count"}).AddRow(1200.0, 6))

	q := testQuery(from, to)
	q.BranchID = branchID
	totals, err := src.SalesTotals(context.Background(), tenantID, q)
	require.NoError(t, err)
	assert.Equal(t, 6, totals.SaleCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSalesTotals_QueryError(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	mock.ExpectQuery(`SELECT COALESCE`).WillReturnError(sql.ErrConnDone)

	_, err := src.SalesTotals(context.Background(), id.TenantID(uuid.New()),
		testQuery(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
	require.Error(t, err)
	assert.ErrorContains(t, err, "sales totals")
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresTopProducts(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	acID := uuid.New()
	freonID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"product_id", "product_name", "quantity", "revenue"}).
		AddRow(acID, "Split AC Unit", 7, 3150.0).
		AddRow(freonID, "Freon Refill", 5, 250.0)

	mock.ExpectQuery(`FROM sale_items i`).
		WithArgs(uuid.UUID(tenantID), from, to.AddDate(0, 0, 1), 5).
		WillReturnRows(rows)

	top, err := src.TopProducts(context.Background(), tenantID, testQuery(from, to), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, id.ProductID(acID), top[0].ProductID)
	assert.Equal(t, "Split AC Unit", top[0].ProductName)
	assert.Equal(t, 7, top[0].Quantity)
	assert.Equal(t, 3150.0, top[0].Revenue)
	assert.Equal(t, "Freon Refill", top[1].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaleRows(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	soldAt := time.Date(2026, 1, 5, 11, 45, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"invoice_no", "created_at", "branch", "cashier", "customer",
		"payment_method", "status", "subtotal", "discount", "total",
	}).
		AddRow("INV-20260105-0001", soldAt, "Downtown", "Sari", "PT Dingin Sejuk", "cash", "completed", 200.0, 20.0, 180.0).
		AddRow("INV-20260106-0002", soldAt.AddDate(0, 0, 1), "Downtown", "Sari", "", "qris", "voided", 75.0, 0.0, 75.0)

	mock.ExpectQuery(`SELECT s.invoice_no`).
		WithArgs(uuid.UUID(tenantID), from, to.AddDate(0, 0, 1)).
		WillReturnRows(rows)

	result, err := src.SaleRows(context.Background(), tenantID, testQuery(from, to))
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "INV-20260105-0001", result[0].InvoiceNo)
	assert.Equal(t, soldAt, result[0].CreatedAt)
	assert.Equal(t, "Downtown", result[0].BranchName)
	assert.Equal(t, "Sari", result[0].CashierName)
	assert.Equal(t, "PT Dingin Sejuk", result[0].CustomerName)
	assert.Equal(t, 180.0, result[0].Total)
	assert.Equal(t, "voided", result[1].Status, "the export keeps voided sales")
	assert.Empty(t, result[1].CustomerName, "walk-in sales have no customer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresContractCounts(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("active", 12).
		AddRow("expired", 3).
		AddRow("cancelled", 1)

	mock.ExpectQuery(`FROM contracts`).
		WithArgs(uuid.UUID(tenantID)).
		WillReturnRows(rows)

	counts, err := src.ContractCounts(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractCounts{Active: 12, Expired: 3, Cancelled: 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresVisitOutcomes(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("completed", 40).
		AddRow("missed", 2)

	// Scheduled dates are whole days; both bounds bind inclusively.
	mock.ExpectQuery(`FROM visits`).
		WithArgs(uuid.UUID(tenantID), from, to).
		WillReturnRows(rows)

	outcomes, err := src.VisitOutcomes(context.Background(), tenantID, models.Period{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, models.VisitOutcomes{Completed: 40, Missed: 2}, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpcomingVisits(t *testing.T) {
	db, mock, src := setupMockDB(t)
	defer db.Close() //nolint:errcheck // test cleanup

	tenantID := id.TenantID(uuid.New())
	today := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`status = 'scheduled'`).
		WithArgs(uuid.UUID(tenantID), today).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	n, err := src.UpcomingVisits(context.Background(), tenantID, today)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
