package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists staff accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed staff store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// dbExecutor is satisfied by both *sql.DB and *sql.Tx, so store methods
// join a caller-managed transaction when ctx carries one.
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

func (s *PostgresStore) Create(ctx context.Context, staff *models.Staff) error {
	if staff == nil {
		return fmt.Errorf("staff is required")
	}
	query := `
		INSERT INTO staff (id, tenant_id, branch_id, name, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(staff.ID),
		nullableUUID(uuid.UUID(staff.TenantID)),
		nullableUUID(uuid.UUID(staff.BranchID)),
		staff.Name,
		staff.Email,
		staff.Phone,
		staff.PasswordHash,
		string(staff.Role),
		string(staff.Status),
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("staff email: %w", sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, staff *models.Staff) error {
	if staff == nil {
		return fmt.Errorf("staff is required")
	}
	query := `
		UPDATE staff
		SET branch_id = $2, name = $3, email = $4, phone = $5, password_hash = $6, role = $7, status = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(staff.ID),
		nullableUUID(uuid.UUID(staff.BranchID)),
		staff.Name,
		staff.Email,
		staff.Phone,
		staff.PasswordHash,
		string(staff.Role),
		string(staff.Status),
		staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("staff email: %w", sentinel.ErrDuplicate)
		}
		return fmt.Errorf("update staff: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update staff rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	query := selectStaff + ` WHERE id = $1 AND tenant_id = $2`
	staff, err := scanStaff(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(staffID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	return staff, nil
}

// FindByEmail looks an account up for login. The search is global: email is
// unique across tenants, so no tenant scope applies.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	query := selectStaff + ` WHERE LOWER(email) = LOWER($1)`
	staff, err := scanStaff(s.execer(ctx).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find staff by email: %w", err)
	}
	return staff, nil
}

// ListByTenant returns a page of a tenant's staff matching the filter,
// oldest first, along with the total match count.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.StaffFilter) ([]*models.Staff, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if !filter.BranchID.IsNil() {
		args = append(args, uuid.UUID(filter.BranchID))
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(lower(name) LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM staff` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		selectStaff, where, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var staff []*models.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff: %w", err)
		}
		staff = append(staff, st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	return staff, total, nil
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM staff WHERE tenant_id = $1`
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(tenantID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return count, nil
}

const selectStaff = `
	SELECT id, tenant_id, branch_id, name, email, phone, password_hash, role, status, created_at, updated_at
	FROM staff`

type staffRow interface {
	Scan(dest ...any) error
}

func scanStaff(row staffRow) (*models.Staff, error) {
	var staff models.Staff
	var staffID uuid.UUID
	var tenantID, branchID uuid.NullUUID
	var role, status string
	if err := row.Scan(&staffID, &tenantID, &branchID, &staff.Name, &staff.Email, &staff.Phone,
		&staff.PasswordHash, &role, &status, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return nil, err
	}
	staff.ID = id.StaffID(staffID)
	staff.TenantID = id.TenantID(tenantID.UUID)
	staff.BranchID = id.BranchID(branchID.UUID)
	staff.Role = id.Role(role)
	staff.Status = models.StaffStatus(status)
	return &staff, nil
}

// nullableUUID maps the nil UUID to SQL NULL. Admin rows store NULL tenant
// and branch columns rather than the zero UUID.
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
