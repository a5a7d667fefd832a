package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/maintenance/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists visits in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed visit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// CreateBatch writes a schedule of visits. Callers run it inside the same
// transaction as the contract write, so a failed batch rolls everything
// back.
func (s *PostgresStore) CreateBatch(ctx context.Context, visits []*models.Visit) error {
	query := `
		INSERT INTO visits (id, contract_id, tenant_id, branch_id, sequence, scheduled_date, status, technician_id, completed_at, report, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, visit := range visits {
		_, err := s.execer(ctx).ExecContext(ctx, query,
			uuid.UUID(visit.ID),
			uuid.UUID(visit.ContractID),
			uuid.UUID(visit.TenantID),
			uuid.UUID(visit.BranchID),
			visit.Sequence,
			visit.ScheduledDate,
			string(visit.Status),
			nullableUUID(uuid.UUID(visit.TechnicianID)),
			visit.CompletedAt,
			visit.Report,
			visit.CreatedAt,
			visit.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("visit sequence %d: %w", visit.Sequence, sentinel.ErrDuplicate)
			}
			return fmt.Errorf("create visit: %w", err)
		}
	}
	return nil
}

// Update persists only the mutable columns. The contract link and sequence
// never change once scheduled.
func (s *PostgresStore) Update(ctx context.Context, visit *models.Visit) error {
	if visit == nil {
		return fmt.Errorf("visit is required")
	}
	query := `
		UPDATE visits
		SET scheduled_date = $2, status = $3, technician_id = $4,
		    completed_at = $5, report = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(visit.ID),
		visit.ScheduledDate,
		string(visit.Status),
		nullableUUID(uuid.UUID(visit.TechnicianID)),
		visit.CompletedAt,
		visit.Report,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update visit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update visit rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, visitID id.VisitID) (*models.Visit, error) {
	query := selectVisit + ` WHERE id = $1 AND tenant_id = $2`
	visit, err := scanVisit(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(visitID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find visit by id: %w", err)
	}
	return visit, nil
}

// ListByTenant returns a page of visits in schedule order along with the
// total match count.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.VisitFilter) ([]*models.Visit, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}
	if !filter.ContractID.IsNil() {
		args = append(args, uuid.UUID(filter.ContractID))
		conditions = append(conditions, fmt.Sprintf("contract_id = $%d", len(args)))
	}
	if !filter.TechnicianID.IsNil() {
		args = append(args, uuid.UUID(filter.TechnicianID))
		conditions = append(conditions, fmt.Sprintf("technician_id = $%d", len(args)))
	}
	if !filter.BranchID.IsNil() {
		args = append(args, uuid.UUID(filter.BranchID))
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("scheduled_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("scheduled_date <= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM visits` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count visits: %w", err)
	}

	query := selectVisit + where + ` ORDER BY scheduled_date, sequence, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var visits []*models.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}
	return visits, total, nil
}

// ListOverdue returns scheduled visits across every tenant dated before the
// cutoff, oldest first. The idx_visits_status_date index serves this scan.
func (s *PostgresStore) ListOverdue(ctx context.Context, before time.Time, limit int) ([]*models.Visit, error) {
	query := selectVisit + `
		WHERE status = 'scheduled' AND scheduled_date < $1
		ORDER BY scheduled_date, id
		LIMIT $2`
	rows, err := s.execer(ctx).QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue visits: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var visits []*models.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list overdue visits: %w", err)
	}
	return visits, nil
}

// CancelScheduled cancels every scheduled visit of the contract in one
// statement and reports how many rows it touched.
func (s *PostgresStore) CancelScheduled(ctx context.Context, contractID id.ContractID, now time.Time) (int, error) {
	query := `
		UPDATE visits
		SET status = 'cancelled', updated_at = $2
		WHERE contract_id = $1 AND status = 'scheduled'
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(contractID), now)
	if err != nil {
		return 0, fmt.Errorf("cancel scheduled visits: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancel scheduled visits rows: %w", err)
	}
	return int(rows), nil
}

const selectVisit = `
	SELECT id, contract_id, tenant_id, branch_id, sequence, scheduled_date, status, technician_id, completed_at, report, created_at, updated_at
	FROM visits`

type visitRow interface {
	Scan(dest ...any) error
}

func scanVisit(row visitRow) (*models.Visit, error) {
	var visit models.Visit
	var visitID, contractID, tenantID, branchID uuid.UUID
	var technicianID uuid.NullUUID
	var status string
	var completedAt sql.NullTime
	if err := row.Scan(&visitID, &contractID, &tenantID, &branchID, &visit.Sequence,
		&visit.ScheduledDate, &status, &technicianID, &completedAt, &visit.Report,
		&visit.CreatedAt, &visit.UpdatedAt); err != nil {
		return nil, err
	}
	visit.ID = id.VisitID(visitID)
	visit.ContractID = id.ContractID(contractID)
	visit.TenantID = id.TenantID(tenantID)
	visit.BranchID = id.BranchID(branchID)
	visit.TechnicianID = id.StaffID(technicianID.UUID)
	visit.Status = models.VisitStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		visit.CompletedAt = &t
	}
	return &visit, nil
}

// nullableUUID maps the nil UUID to SQL NULL for the technician column.
func nullableUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
