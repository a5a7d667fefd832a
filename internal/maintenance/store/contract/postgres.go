package contract

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

// PostgresStore persists contracts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contract store.
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

// Create writes the contract row and its items.
func (s *PostgresStore) Create(ctx context.Context, contract *models.Contract) error {
	if contract == nil {
		return fmt.Errorf("contract is required")
	}
	query := `
		INSERT INTO contracts (id, tenant_id, branch_id, customer_id, sale_id, technician_id, contract_no, start_date, end_date, frequency, total_visits, status, renewal_count, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(contract.ID),
		uuid.UUID(contract.TenantID),
		uuid.UUID(contract.BranchID),
		uuid.UUID(contract.CustomerID),
		nullableUUID(uuid.UUID(contract.SaleID)),
		nullableUUID(uuid.UUID(contract.TechnicianID)),
		contract.ContractNo,
		contract.StartDate,
		contract.EndDate,
		string(contract.Frequency),
		contract.TotalVisits,
		string(contract.Status),
		contract.RenewalCount,
		contract.Notes,
		nullableUUID(uuid.UUID(contract.CreatedBy)),
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contract number %q: %w", contract.ContractNo, sentinel.ErrDuplicate)
		}
		return fmt.Errorf("create contract: %w", err)
	}

	itemQuery := `
		INSERT INTO contract_items (id, contract_id, product_id, product_name, serial_no, quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range contract.Items {
		_, err := s.execer(ctx).ExecContext(ctx, itemQuery,
			uuid.UUID(item.ID),
			uuid.UUID(contract.ID),
			uuid.UUID(item.ProductID),
			item.ProductName,
			item.SerialNo,
			item.Quantity,
			item.Notes,
		)
		if err != nil {
			return fmt.Errorf("create contract item: %w", err)
		}
	}
	return nil
}

// Update persists only the mutable columns. Items are immutable once
// written; renewals and status transitions never touch them.
func (s *PostgresStore) Update(ctx context.Context, contract *models.Contract) error {
	if contract == nil {
		return fmt.Errorf("contract is required")
	}
	query := `
		UPDATE contracts
		SET start_date = $2, end_date = $3, total_visits = $4, status = $5,
		    renewal_count = $6, technician_id = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(contract.ID),
		contract.StartDate,
		contract.EndDate,
		contract.TotalVisits,
		string(contract.Status),
		contract.RenewalCount,
		nullableUUID(uuid.UUID(contract.TechnicianID)),
		contract.Notes,
		contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contract rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByTenantAndID(ctx context.Context, tenantID id.TenantID, contractID id.ContractID) (*models.Contract, error) {
	query := selectContract + ` WHERE id = $1 AND tenant_id = $2`
	contract, err := scanContract(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(contractID), uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contract by id: %w", err)
	}

	items, err := s.loadItems(ctx, contractID)
	if err != nil {
		return nil, err
	}
	contract.Items = items
	return contract, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, contractID id.ContractID) ([]*models.ContractItem, error) {
	query := `
		SELECT id, contract_id, product_id, product_name, serial_no, quantity, notes
		FROM contract_items
		WHERE contract_id = $1
		ORDER BY id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(contractID))
	if err != nil {
		return nil, fmt.Errorf("load contract items: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var items []*models.ContractItem
	for rows.Next() {
		var item models.ContractItem
		var itemID, rowContractID, productID uuid.UUID
		if err := rows.Scan(&itemID, &rowContractID, &productID, &item.ProductName,
			&item.SerialNo, &item.Quantity, &item.Notes); err != nil {
			return nil, fmt.Errorf("scan contract item: %w", err)
		}
		item.ID = id.ContractItemID(itemID)
		item.ContractID = id.ContractID(rowContractID)
		item.ProductID = id.ProductID(productID)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load contract items: %w", err)
	}
	return items, nil
}

// ListByTenant returns a page of contract summaries without items, newest
// first, along with the total match count.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ContractFilter) ([]*models.Contract, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{uuid.UUID(tenantID)}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.CustomerID.IsNil() {
		args = append(args, uuid.UUID(filter.CustomerID))
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if !filter.BranchID.IsNil() {
		args = append(args, uuid.UUID(filter.BranchID))
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)))
	}
	if !filter.ExpiringBefore.IsZero() {
		// The expiring-before view only covers active contracts, matching
		// the partial idx_contracts_end_date index.
		args = append(args, filter.ExpiringBefore)
		conditions = append(conditions, fmt.Sprintf("end_date < $%d", len(args)), "status = 'active'")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM contracts` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		selectContract, where, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var contracts []*models.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, total, nil
}

// ListExpired returns active contracts across every tenant whose end date
// falls before the cutoff, oldest first. The partial idx_contracts_end_date
// index serves this scan.
func (s *PostgresStore) ListExpired(ctx context.Context, before time.Time, limit int) ([]*models.Contract, error) {
	query := selectContract + `
		WHERE status = 'active' AND end_date < $1
		ORDER BY end_date, id
		LIMIT $2`
	rows, err := s.execer(ctx).QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired contracts: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var contracts []*models.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired contracts: %w", err)
	}
	return contracts, nil
}

const selectContract = `
	SELECT id, tenant_id, branch_id, customer_id, sale_id, technician_id, contract_no, start_date, end_date, frequency, total_visits, status, renewal_count, notes, created_by, created_at, updated_at
	FROM contracts`

type contractRow interface {
	Scan(dest ...any) error
}

func scanContract(row contractRow) (*models.Contract, error) {
	var contract models.Contract
	var contractID, tenantID, branchID, customerID uuid.UUID
	var saleID, technicianID, createdBy uuid.NullUUID
	var frequency, status string
	if err := row.Scan(&contractID, &tenantID, &branchID, &customerID, &saleID, &technicianID,
		&contract.ContractNo, &contract.StartDate, &contract.EndDate, &frequency,
		&contract.TotalVisits, &status, &contract.RenewalCount, &contract.Notes,
		&createdBy, &contract.CreatedAt, &contract.UpdatedAt); err != nil {
		return nil, err
	}
	contract.ID = id.ContractID(contractID)
	contract.TenantID = id.TenantID(tenantID)
	contract.BranchID = id.BranchID(branchID)
	contract.CustomerID = id.CustomerID(customerID)
	contract.SaleID = id.SaleID(saleID.UUID)
	contract.TechnicianID = id.StaffID(technicianID.UUID)
	contract.CreatedBy = id.StaffID(createdBy.UUID)
	contract.Frequency = models.Frequency(frequency)
	contract.Status = models.ContractStatus(status)
	return &contract, nil
}

// nullableUUID maps the nil UUID to SQL NULL for the optional reference
// columns.
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
