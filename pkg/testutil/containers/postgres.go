//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"fieldpos/migrations"
	id "fieldpos/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("fieldpos_test"),
		postgres.WithUsername("fieldpos"),
		postgres.WithPassword("fieldpos_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Note: We don't register t.Cleanup here because the container is managed
	// by the singleton Manager and shared across test suites. Ryuk (testcontainers'
	// cleanup sidecar) handles container cleanup when the test process exits.

	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
// Use between tests to ensure isolation without restarting the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables truncates all module tables for full integration test isolation.
// Tables are truncated with CASCADE to handle foreign key dependencies.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	// Order matters due to FK constraints; CASCADE handles dependencies
	tables := []string{
		// Maintenance tables (visits and items depend on contracts)
		"visits",
		"contract_items",
		"contracts",

		// Sales tables (items depend on sales)
		"sale_items",
		"sales",

		// Catalog and customer tables
		"products",
		"categories",
		"customers",

		// Core tables (staff and branches depend on tenants)
		"staff",
		"branches",
		"tenants",
	}
	return p.TruncateTables(ctx, tables...)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Query runs a SQL query and returns rows.
func (p *PostgresContainer) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.DB.QueryContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestTenant inserts a test tenant and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestTenant(ctx context.Context, t testing.TB) id.TenantID {
	t.Helper()
	tenantID := id.TenantID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO tenants (id, name, status, created_at, updated_at)
		VALUES ($1, $2, 'active', NOW(), NOW())
	`, uuid.UUID(tenantID), "Test Tenant "+uuid.NewString())
	if err != nil {
		t.Fatalf("CreateTestTenant: %v", err)
	}
	return tenantID
}

// CreateTestBranch inserts a test branch for the given tenant and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestBranch(ctx context.Context, t testing.TB, tenantID id.TenantID) id.BranchID {
	t.Helper()
	branchID := id.BranchID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO branches (id, tenant_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'active', NOW(), NOW())
	`, uuid.UUID(branchID), uuid.UUID(tenantID), "Test Branch "+uuid.NewString())
	if err != nil {
		t.Fatalf("CreateTestBranch: %v", err)
	}
	return branchID
}

// CreateTestStaff inserts a test staff member for the given tenant and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestStaff(ctx context.Context, t testing.TB, tenantID id.TenantID, role string) id.StaffID {
	t.Helper()
	staffID := id.StaffID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO staff (id, tenant_id, name, email, password_hash, role, status)
		VALUES ($1, $2, 'Test Staff', $3, 'x', $4, 'active')
	`, uuid.UUID(staffID), uuid.UUID(tenantID), "staff-"+uuid.NewString()+"@example.com", role)
	if err != nil {
		t.Fatalf("CreateTestStaff: %v", err)
	}
	return staffID
}

// CreateTestCustomer inserts a test customer for the given tenant and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestCustomer(ctx context.Context, t testing.TB, tenantID id.TenantID) id.CustomerID {
	t.Helper()
	customerID := id.CustomerID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO customers (id, tenant_id, name, phone, created_at, updated_at)
		VALUES ($1, $2, 'Test Customer', $3, NOW(), NOW())
	`, uuid.UUID(customerID), uuid.UUID(tenantID), "05"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("CreateTestCustomer: %v", err)
	}
	return customerID
}

// CreateTestProduct inserts a test product for the given tenant and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestProduct(ctx context.Context, t testing.TB, tenantID id.TenantID, stock int) id.ProductID {
	t.Helper()
	productID := id.ProductID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO products (id, tenant_id, name, price, stock, maintainable, status, created_at, updated_at)
		VALUES ($1, $2, $3, 100, $4, TRUE, 'active', NOW(), NOW())
	`, uuid.UUID(productID), uuid.UUID(tenantID), "Test Product "+uuid.NewString(), stock)
	if err != nil {
		t.Fatalf("CreateTestProduct: %v", err)
	}
	return productID
}
