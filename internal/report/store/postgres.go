// Package store provides the aggregate sources behind the reports: a SQL
// implementation for production and an in-memory fold for the demo
// environment.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldpos/internal/report/models"
	id "fieldpos/pkg/domain"
)

// Postgres runs the report aggregates directly in SQL. Reports read
// committed data only, so no transaction context is consulted.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed report source.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// SalesTotals sums completed sales inside the period. Timestamps compare
// half-open against the day after To, so the whole last day counts.
func (s *Postgres) SalesTotals(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) (models.SalesTotals, error) {
	conditions, args := salesConditions(tenantID, q, true)
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(s.total), 0), COUNT(*)
		FROM sales s
		WHERE %s`, strings.Join(conditions, " AND "))

	var totals models.SalesTotals
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totals.Revenue, &totals.SaleCount); err != nil {
		return models.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return totals, nil
}

// TopProducts ranks the period's products by units sold, revenue breaking
// ties.
func (s *Postgres) TopProducts(ctx context.Context, tenantID id.TenantID, q models.SalesQuery, limit int) ([]models.TopProduct, error) {
	conditions, args := salesConditions(tenantID, q, true)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT i.product_id, i.product_name, SUM(i.quantity), SUM(i.line_total)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		WHERE %s
		GROUP BY i.product_id, i.product_name
		ORDER BY SUM(i.quantity) DESC, SUM(i.line_total) DESC, i.product_name
		LIMIT $%d`, strings.Join(conditions, " AND "), len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var top []models.TopProduct
	for rows.Next() {
		var product models.TopProduct
		var productID uuid.UUID
		if err := rows.Scan(&productID, &product.ProductName, &product.Quantity, &product.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		product.ProductID = id.ProductID(productID)
		top = append(top, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return top, nil
}

// SaleRows returns the period's sales as flat export rows, oldest first.
// Voided sales are included; the status column tells them apart.
func (s *Postgres) SaleRows(ctx context.Context, tenantID id.TenantID, q models.SalesQuery) ([]models.SaleRow, error) {
	conditions, args := salesConditions(tenantID, q, false)
	query := fmt.Sprintf(`
		SELECT s.invoice_no, s.created_at, b.name, st.name, COALESCE(c.name, ''),
		       s.payment_method, s.status, s.subtotal, s.discount, s.total
		FROM sales s
		JOIN branches b ON b.id = s.branch_id
		JOIN staff st ON st.id = s.staff_id
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE %s
		ORDER BY s.created_at, s.id`, strings.Join(conditions, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sale rows: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var result []models.SaleRow
	for rows.Next() {
		var row models.SaleRow
		if err := rows.Scan(&row.InvoiceNo, &row.CreatedAt, &row.BranchName, &row.CashierName,
			&row.CustomerName, &row.PaymentMethod, &row.Status,
			&row.Subtotal, &row.Discount, &row.Total); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sale rows: %w", err)
	}
	return result, nil
}

// ContractCounts tallies the tenant's contracts by status.
func (s *Postgres) ContractCounts(ctx context.Context, tenantID id.TenantID) (models.ContractCounts, error) {
	query := `
		SELECT status, COUNT(*)
		FROM contracts
		WHERE tenant_id = $1
		GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return models.ContractCounts{}, fmt.Errorf("contract counts: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var counts models.ContractCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return models.ContractCounts{}, fmt.Errorf("scan contract count: %w", err)
		}
		switch status {
		case "active":
			counts.Active = n
		case "expired":
			counts.Expired = n
		case "cancelled":
			counts.Cancelled = n
		}
	}
	if err := rows.Err(); err != nil {
		return models.ContractCounts{}, fmt.Errorf("contract counts: %w", err)
	}
	return counts, nil
}

// VisitOutcomes counts completed and missed visits scheduled inside the
// period. Scheduled dates are whole days, so both bounds are inclusive.
func (s *Postgres) VisitOutcomes(ctx context.Context, tenantID id.TenantID, period models.Period) (models.VisitOutcomes, error) {
	query := `
		SELECT status, COUNT(*)
		FROM visits
		WHERE tenant_id = $1 AND status IN ('completed', 'missed')
		  AND scheduled_date >= $2 AND scheduled_date <= $3
		GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID), period.From, period.To)
	if err != nil {
		return models.VisitOutcomes{}, fmt.Errorf("visit outcomes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var outcomes models.VisitOutcomes
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return models.VisitOutcomes{}, fmt.Errorf("scan visit outcome: %w", err)
		}
		switch status {
		case "completed":
			outcomes.Completed = n
		case "missed":
			outcomes.Missed = n
		}
	}
	if err := rows.Err(); err != nil {
		return models.VisitOutcomes{}, fmt.Errorf("visit outcomes: %w", err)
	}
	return outcomes, nil
}

// UpcomingVisits counts visits still scheduled on or after the given day.
func (s *Postgres) UpcomingVisits(ctx context.Context, tenantID id.TenantID, onOrAfter time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM visits
		WHERE tenant_id = $1 AND status = 'scheduled' AND scheduled_date >= $2`

	var n int
	if err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), onOrAfter).Scan(&n); err != nil {
		return 0, fmt.Errorf("upcoming visits: %w", err)
	}
	return n, nil
}

// salesConditions builds the shared WHERE clause over the sales table.
// completedOnly pins the status; the export keeps voided rows.
func salesConditions(tenantID id.TenantID, q models.SalesQuery, completedOnly bool) ([]string, []any) {
	conditions := []string{"s.tenant_id = $1", "s.created_at >= $2", "s.created_at < $3"}
	if completedOnly {
		conditions = append(conditions, "s.status = 'completed'")
	}
	args := []any{uuid.UUID(tenantID), q.From, q.NextDay()}
	if !q.BranchID.IsNil() {
		args = append(args, uuid.UUID(q.BranchID))
		conditions = append(conditions, fmt.Sprintf("s.branch_id = $%d", len(args)))
	}
	return conditions, args
}
