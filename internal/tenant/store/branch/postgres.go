package branch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/tenant/models"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists branches in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed branch store.
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

func (s *PostgresStore) Create(ctx context.Context, branch *models.Branch) error {
	if branch == nil {
		return fmt.Errorf("branch is required")
	}
	query := `
		INSERT INTO branches (id, tenant_id, name, phone, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(branch.ID),
		uuid.UUID(branch.TenantID),
		branch.Name,
		branch.Phone,
		branch.Address,
		string(branch.Status),
		branch.CreatedAt,
		branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("branch %s: %w", branch.ID, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, branch *models.Branch) error {
	if branch == nil {
		return fmt.Errorf("branch is required")
	}
	query := `
		UPDATE branches
		SET name = $2, phone = $3, address = $4, status = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(branch.ID),
		branch.Name,
		branch.Phone,
		branch.Address,
		string(branch.Status),
		branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("branch name %q: %w", branch.Name, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("update branch: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update branch rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// FindByTenantAndID scopes the lookup to the owning tenant: a branch ID from
// another tenant behaves exactly like a missing one.
func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (*models.Branch, error) {
	query := `
		SELECT id, tenant_id, name, phone, address, status, created_at, updated_at
		FROM branches
		WHERE id = $1 AND tenant_id = $2
	`
	branch, err := scanBranch(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(branchID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return branch, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Branch, error) {
	query := `
		SELECT id, tenant_id, name, phone, address, status, created_at, updated_at
		FROM branches
		WHERE tenant_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	branches := make([]*models.Branch, 0)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM branches WHERE tenant_id = $1`
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(tenantID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count branches: %w", err)
	}
	return count, nil
}

type branchRow interface {
	Scan(dest ...any) error
}

func scanBranch(row branchRow) (*models.Branch, error) {
	var branch models.Branch
	var status string
	var branchID, tenantID uuid.UUID
	if err := row.Scan(&branchID, &tenantID, &branch.Name, &branch.Phone, &branch.Address, &status, &branch.CreatedAt, &branch.UpdatedAt); err != nil {
		return nil, err
	}
	branch.ID = id.BranchID(branchID)
	branch.TenantID = id.TenantID(tenantID)
	branch.Status = models.BranchStatus(status)
	return &branch, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
