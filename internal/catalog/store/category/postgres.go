package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists categories in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed category store.
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

func (s *PostgresStore) Create(ctx context.Context, c *models.Category) error {
	if c == nil {
		return fmt.Errorf("category is required")
	}
	query := `
		INSERT INTO categories (id, tenant_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID),
		uuid.UUID(c.TenantID),
		c.Name,
		string(c.Status),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name %q: %w", c.Name, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Category) error {
	if c == nil {
		return fmt.Errorf("category is required")
	}
	query := `
		UPDATE categories
		SET name = $2, status = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID),
		c.Name,
		string(c.Status),
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name %q: %w", c.Name, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error) {
	query := selectCategory + ` WHERE id = $1 AND tenant_id = $2`
	category, err := scanCategory(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(categoryID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return category, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Category, error) {
	query := selectCategory + ` WHERE tenant_id = $1 ORDER BY LOWER(name)`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

const selectCategory = `
	SELECT id, tenant_id, name, status, created_at, updated_at
	FROM categories`

type categoryRow interface {
	Scan(dest ...any) error
}

func scanCategory(row categoryRow) (*models.Category, error) {
	var category models.Category
	var categoryID, tenantID uuid.UUID
	var status string
	if err := row.Scan(&categoryID, &tenantID, &category.Name, &status, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}
	category.ID = id.CategoryID(categoryID)
	category.TenantID = id.TenantID(tenantID)
	category.Status = models.CategoryStatus(status)
	return &category, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
