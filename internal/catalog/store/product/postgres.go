package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	txcontext "fieldpos/pkg/platform/tx"
)

// PostgresStore persists products in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed product store.
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

func (s *PostgresStore) Create(ctx context.Context, p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is required")
	}
	query := `
		INSERT INTO products (id, tenant_id, category_id, name, sku, barcode, price, cost, stock, low_stock_threshold, maintainable, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID),
		uuid.UUID(p.TenantID),
		nullableUUID(uuid.UUID(p.CategoryID)),
		p.Name,
		p.SKU,
		p.Barcode,
		p.Price,
		p.Cost,
		p.Stock,
		p.LowStockThreshold,
		p.Maintainable,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product sku %q: %w", p.SKU, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update persists every column except stock. Stock only moves through
// AdjustStock, so a stale details update cannot overwrite a concurrent
// sale's decrement.
func (s *PostgresStore) Update(ctx context.Context, p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is required")
	}
	query := `
		UPDATE products
		SET category_id = $2, name = $3, sku = $4, barcode = $5, price = $6, cost = $7,
		    low_stock_threshold = $8, maintainable = $9, status = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID),
		nullableUUID(uuid.UUID(p.CategoryID)),
		p.Name,
		p.SKU,
		p.Barcode,
		p.Price,
		p.Cost,
		p.LowStockThreshold,
		p.Maintainable,
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product sku %q: %w", p.SKU, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error) {
	query := selectProduct + ` WHERE id = $1 AND tenant_id = $2`
	product, err := scanProduct(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(productID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return product, nil
}

// FindByCode resolves an exact barcode or SKU within the tenant.
func (s *PostgresStore) FindByCode(ctx context.Context, tenantID id.TenantID, code string) (*models.Product, error) {
	query := selectProduct + `
		WHERE tenant_id = $1 AND ((barcode <> '' AND barcode = $2) OR (sku <> '' AND sku = $2))
		LIMIT 1`
	product, err := scanProduct(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(tenantID), code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find product by code: %w", err)
	}
	return product, nil
}

// ListByTenant returns a page of a tenant's products matching the filter,
// sorted by name, along with the total match count.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ProductFilter) ([]*models.Product, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}
	if !filter.CategoryID.IsNil() {
		args = append(args, uuid.UUID(filter.CategoryID))
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(lower(name) LIKE $%d OR lower(sku) LIKE $%d)", len(args), len(args)))
	}
	if filter.LowStock {
		conditions = append(conditions, "low_stock_threshold > 0 AND stock <= low_stock_threshold")
	}
	if filter.Maintainable {
		conditions = append(conditions, "maintainable")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY LOWER(name), id LIMIT $%d OFFSET $%d`,
		selectProduct, where, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// AdjustStock applies a signed delta atomically. The conditional update
// takes the row lock and refuses to cross zero, so two concurrent sales
// cannot both take the last unit.
func (s *PostgresStore) AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, delta int) (*models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND stock + $3 >= 0
		RETURNING id, tenant_id, category_id, name, sku, barcode, price, cost, stock, low_stock_threshold, maintainable, status, created_at, updated_at
	`
	product, err := scanProduct(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(productID), uuid.UUID(tenantID), delta))
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	// No row updated: either the product is missing or the delta would
	// cross zero. Tell them apart for the caller.
	var stock int
	checkQuery := `SELECT stock FROM products WHERE id = $1 AND tenant_id = $2`
	if err := s.execer(ctx).QueryRowContext(ctx, checkQuery, uuid.UUID(productID), uuid.UUID(tenantID)).Scan(&stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("adjust stock check: %w", err)
	}
	return nil, fmt.Errorf("product %s has %d in stock: %w", productID, stock, sentinel.ErrInsufficientStock)
}

const selectProduct = `
	SELECT id, tenant_id, category_id, name, sku, barcode, price, cost, stock, low_stock_threshold, maintainable, status, created_at, updated_at
	FROM products`

type productRow interface {
	Scan(dest ...any) error
}

func scanProduct(row productRow) (*models.Product, error) {
	var product models.Product
	var productID, tenantID uuid.UUID
	var categoryID uuid.NullUUID
	var status string
	if err := row.Scan(&productID, &tenantID, &categoryID, &product.Name, &product.SKU, &product.Barcode,
		&product.Price, &product.Cost, &product.Stock, &product.LowStockThreshold, &product.Maintainable,
		&status, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return nil, err
	}
	product.ID = id.ProductID(productID)
	product.TenantID = id.TenantID(tenantID)
	product.CategoryID = id.CategoryID(categoryID.UUID)
	product.Status = models.ProductStatus(status)
	return &product, nil
}

// nullableUUID maps the nil UUID to SQL NULL for the category column.
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
