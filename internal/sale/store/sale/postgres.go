package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists sales in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed sale store.
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

// Create writes the sale row and its items. The position column preserves
// receipt line order without the model carrying it.
func (s *PostgresStore) Create(ctx context.Context, sale *models.Sale) error {
	if sale == nil {
		return fmt.Errorf("sale is required")
	}
	query := `
		INSERT INTO sales (id, tenant_id, branch_id, customer_id, staff_id, invoice_no, subtotal, discount, total, paid, change, payment_method, device, status, voided_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(sale.ID),
		uuid.UUID(sale.TenantID),
		uuid.UUID(sale.BranchID),
		nullableUUID(uuid.UUID(sale.CustomerID)),
		uuid.UUID(sale.CashierID),
		sale.InvoiceNo,
		sale.Subtotal,
		sale.Discount,
		sale.Total,
		sale.Paid,
		sale.Change,
		sale.PaymentMethod,
		sale.Device,
		string(sale.Status),
		sale.VoidedAt,
		sale.CreatedAt,
		sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale invoice %q: %w", sale.InvoiceNo, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, position, product_id, product_name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for position, item := range sale.Items {
		_, err := s.execer(ctx).ExecContext(ctx, itemQuery,
			uuid.UUID(item.ID),
			uuid.UUID(sale.ID),
			position,
			uuid.UUID(item.ProductID),
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// UpdateStatus persists only the lifecycle columns. Everything else on a
// sale is immutable once written.
func (s *PostgresStore) UpdateStatus(ctx context.Context, sale *models.Sale) error {
	if sale == nil {
		return fmt.Errorf("sale is required")
	}
	query := `
		UPDATE sales
		SET status = $2, voided_at = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(sale.ID),
		string(sale.Status),
		sale.VoidedAt,
		sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sale status rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, saleID id.SaleID) (*models.Sale, error) {
	query := selectSale + ` WHERE id = $1 AND tenant_id = $2`
	sale, err := scanSale(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(saleID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find sale by id: %w", err)
	}

	items, err := s.loadItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, saleID id.SaleID) ([]*models.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, unit_price, quantity, line_total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY position
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(saleID))
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var items []*models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		var itemID, rowSaleID, productID uuid.UUID
		if err := rows.Scan(&itemID, &rowSaleID, &productID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		item.ID = id.SaleItemID(itemID)
		item.SaleID = id.SaleID(rowSaleID)
		item.ProductID = id.ProductID(productID)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	return items, nil
}

// ListByTenant returns a page of sale summaries without items, newest
// first, along with the total match count.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.SaleFilter) ([]*models.Sale, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}
	if !filter.BranchID.IsNil() {
		args = append(args, uuid.UUID(filter.BranchID))
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)))
	}
	if !filter.CashierID.IsNil() {
		args = append(args, uuid.UUID(filter.CashierID))
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if !filter.CustomerID.IsNil() {
		args = append(args, uuid.UUID(filter.CustomerID))
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM sales` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		selectSale, where, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var sales []*models.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	return sales, total, nil
}

const selectSale = `
	SELECT id, tenant_id, branch_id, customer_id, staff_id, invoice_no, subtotal, discount, total, paid, change, payment_method, device, status, voided_at, created_at, updated_at
	FROM sales`

type saleRow interface {
	Scan(dest ...any) error
}

func scanSale(row saleRow) (*models.Sale, error) {
	var sale models.Sale
	var saleID, tenantID, branchID, staffID uuid.UUID
	var customerID uuid.NullUUID
	var status string
	var voidedAt sql.NullTime
	if err := row.Scan(&saleID, &tenantID, &branchID, &customerID, &staffID, &sale.InvoiceNo,
		&sale.Subtotal, &sale.Discount, &sale.Total, &sale.Paid, &sale.Change,
		&sale.PaymentMethod, &sale.Device, &status, &voidedAt, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
		return nil, err
	}
	sale.ID = id.SaleID(saleID)
	sale.TenantID = id.TenantID(tenantID)
	sale.BranchID = id.BranchID(branchID)
	sale.CustomerID = id.CustomerID(customerID.UUID)
	sale.CashierID = id.StaffID(staffID)
	sale.Status = models.SaleStatus(status)
	if voidedAt.Valid {
		t := voidedAt.Time
		sale.VoidedAt = &t
	}
	return &sale, nil
}

// nullableUUID maps the nil UUID to SQL NULL for the customer column.
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
