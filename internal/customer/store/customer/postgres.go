package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists customers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed customer store.
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

func (s *PostgresStore) Create(ctx context.Context, c *models.Customer) error {
	if c == nil {
		return fmt.Errorf("customer is required")
	}
	query := `
		INSERT INTO customers (id, tenant_id, name, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID),
		uuid.UUID(c.TenantID),
		c.Name,
		c.Phone,
		c.Email,
		c.Address,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer phone %q: %w", c.Phone, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Customer) error {
	if c == nil {
		return fmt.Errorf("customer is required")
	}
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID),
		c.Name,
		c.Phone,
		c.Email,
		c.Address,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer phone %q: %w", c.Phone, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, customerID id.CustomerID) (*models.Customer, error) {
	query := selectCustomer + ` WHERE id = $1 AND tenant_id = $2`
	customer, err := scanCustomer(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(customerID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find customer by id: %w", err)
	}
	return customer, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(lower(name) LIKE $%d OR phone LIKE $%d)", n, n))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM customers` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := selectCustomer + where + fmt.Sprintf(" ORDER BY LOWER(name), id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

const selectCustomer = `
	SELECT id, tenant_id, name, phone, email, address, created_at, updated_at
	FROM customers`

type customerRow interface {
	Scan(dest ...any) error
}

func scanCustomer(row customerRow) (*models.Customer, error) {
	var customer models.Customer
	var customerID, tenantID uuid.UUID
	if err := row.Scan(&customerID, &tenantID, &customer.Name, &customer.Phone, &customer.Email, &customer.Address, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
		return nil, err
	}
	customer.ID = id.CustomerID(customerID)
	customer.TenantID = id.TenantID(tenantID)
	return &customer, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
