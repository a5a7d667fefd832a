// Package seeder fills the stores with one believable demo business so a
// demo-mode server has something to answer with: a tenant, two branches,
// staff for every role, a small catalog, a few customers, a completed sale,
// and a monthly maintenance contract with its visit schedule.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	catalogmodels "fieldpos/internal/catalog/models"
	catalogservice "fieldpos/internal/catalog/service"
	customermodels "fieldpos/internal/customer/models"
	customerservice "fieldpos/internal/customer/service"
	maintmodels "fieldpos/internal/maintenance/models"
	maintservice "fieldpos/internal/maintenance/service"
	salemodels "fieldpos/internal/sale/models"
	saleservice "fieldpos/internal/sale/service"
	staffmodels "fieldpos/internal/staff/models"
	staffservice "fieldpos/internal/staff/service"
	tenantmodels "fieldpos/internal/tenant/models"
	tenantservice "fieldpos/internal/tenant/service"
	id "fieldpos/pkg/domain"
)

// Every seeded account logs in with demoPassword. Demo mode only.
const (
	demoPassword   = "password"
	demoOwnerEmail = "owner@sejukabadi.test"
)

// The seeder goes through the service layer rather than the stores, so the
// demo data passes the same validation and bookkeeping as API traffic: the
// sale decrements stock and the contract generates its visit schedule.

// TenantOnboarding provisions the demo business with its default branch
// and owner account.
type TenantOnboarding interface {
	CreateTenant(ctx context.Context, cmd *tenantservice.CreateTenantCommand) (*tenantservice.CreateTenantResult, error)
}

// BranchAdmin opens additional branches.
type BranchAdmin interface {
	CreateBranch(ctx context.Context, cmd *tenantservice.CreateBranchCommand) (*tenantmodels.Branch, error)
}

// StaffAdmin hires the demo crew.
type StaffAdmin interface {
	CreateStaff(ctx context.Context, cmd *staffservice.CreateStaffCommand) (*staffmodels.Staff, error)
}

// CategoryAdmin and ProductAdmin build the demo catalog.
type CategoryAdmin interface {
	CreateCategory(ctx context.Context, cmd *catalogservice.CreateCategoryCommand) (*catalogmodels.Category, error)
}

type ProductAdmin interface {
	CreateProduct(ctx context.Context, cmd *catalogservice.CreateProductCommand) (*catalogmodels.Product, error)
}

// CustomerBook registers the demo customers.
type CustomerBook interface {
	CreateCustomer(ctx context.Context, cmd *customerservice.CreateCustomerCommand) (*customermodels.Customer, error)
}

// Register rings up the demo sale.
type Register interface {
	CreateSale(ctx context.Context, cmd *saleservice.CreateSaleCommand) (*salemodels.Sale, error)
}

// ContractDesk opens the demo maintenance contract.
type ContractDesk interface {
	CreateContract(ctx context.Context, cmd *maintservice.CreateContractCommand) (*maintmodels.Contract, error)
}

// Deps collects the service slices the seeder drives.
type Deps struct {
	Tenants    TenantOnboarding
	Branches   BranchAdmin
	Staff      StaffAdmin
	Categories CategoryAdmin
	Products   ProductAdmin
	Customers  CustomerBook
	Register   Register
	Contracts  ContractDesk
}

// Seeder populates the stores with demo data.
type Seeder struct {
	tenants    TenantOnboarding
	branches   BranchAdmin
	staff      StaffAdmin
	categories CategoryAdmin
	products   ProductAdmin
	customers  CustomerBook
	register   Register
	contracts  ContractDesk
	logger     *slog.Logger
}

// New creates a new seeder.
func New(deps Deps, logger *slog.Logger) *Seeder {
	return &Seeder{
		tenants:    deps.Tenants,
		branches:   deps.Branches,
		staff:      deps.Staff,
		categories: deps.Categories,
		products:   deps.Products,
		customers:  deps.Customers,
		register:   deps.Register,
		contracts:  deps.Contracts,
		logger:     logger,
	}
}

// SeedAll populates all stores with the demo business.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	business, err := s.seedBusiness(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed business: %w", err)
	}
	tenantID := business.Tenant.ID

	if err := s.seedSecondBranch(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to seed branches: %w", err)
	}

	crew, err := s.seedStaff(ctx, tenantID, business.Branch.ID)
	if err != nil {
		return fmt.Errorf("failed to seed staff: %w", err)
	}

	products, err := s.seedCatalog(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	patrons, err := s.seedCustomers(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	sale, err := s.seedSale(ctx, tenantID, business.Branch.ID, crew[id.RoleCashier], patrons[0], products)
	if err != nil {
		return fmt.Errorf("failed to seed sale: %w", err)
	}

	contract, err := s.seedContract(ctx, tenantID, business.Branch.ID, crew, patrons[0], sale, products)
	if err != nil {
		return fmt.Errorf("failed to seed contract: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"tenant", business.Tenant.Name,
		"owner_email", demoOwnerEmail,
		"staff", len(crew)+1,
		"products", len(products),
		"customers", len(patrons),
		"invoice", sale.InvoiceNo,
		"contract", contract.ContractNo,
		"visits", contract.TotalVisits,
	)

	return nil
}

func (s *Seeder) seedBusiness(ctx context.Context) (*tenantservice.CreateTenantResult, error) {
	return s.tenants.CreateTenant(ctx, &tenantservice.CreateTenantCommand{
		Name:          "CV Sejuk Abadi",
		Phone:         "021-7279-0001",
		Address:       "Jl. Kemang Raya No. 18, Jakarta Selatan",
		BranchName:    "Kemang Showroom",
		OwnerName:     "Budi Santoso",
		OwnerEmail:    demoOwnerEmail,
		OwnerPassword: demoPassword,
	})
}

func (s *Seeder) seedSecondBranch(ctx context.Context, tenantID id.TenantID) error {
	_, err := s.branches.CreateBranch(ctx, &tenantservice.CreateBranchCommand{
		TenantID: tenantID,
		Name:     "Depok Service Point",
		Phone:    "021-7279-0002",
		Address:  "Jl. Margonda Raya No. 88, Depok",
	})
	return err
}

// seedStaff hires one person per tenant role. The onboarding already
// provisioned the owner, so the crew covers cashier, maintenance, and
// technician. Roles that work out of a branch get the showroom.
func (s *Seeder) seedStaff(ctx context.Context, tenantID id.TenantID, branchID id.BranchID) (map[id.Role]id.StaffID, error) {
	members := []struct {
		name  string
		email string
		phone string
		role  id.Role
	}{
		{"Sari Wulandari", "sari@sejukabadi.test", "0812-1001-2001", id.RoleCashier},
		{"Agus Prasetyo", "agus@sejukabadi.test", "0812-1001-2002", id.RoleMaintenance},
		{"Joko Susilo", "joko@sejukabadi.test", "0812-1001-2003", id.RoleTechnician},
	}

	crew := make(map[id.Role]id.StaffID, len(members))
	for _, m := range members {
		cmd := &staffservice.CreateStaffCommand{
			TenantID: tenantID,
			Name:     m.name,
			Email:    m.email,
			Phone:    m.phone,
			Password: demoPassword,
			Role:     m.role,
		}
		if m.role.RequiresBranch() {
			cmd.BranchID = branchID
		}
		created, err := s.staff.CreateStaff(ctx, cmd)
		if err != nil {
			return nil, err
		}
		crew[m.role] = created.ID
	}

	return crew, nil
}

// seedCatalog creates the categories and products and returns the product
// IDs keyed by SKU, so the sale and contract steps can reference them.
func (s *Seeder) seedCatalog(ctx context.Context, tenantID id.TenantID) (map[string]id.ProductID, error) {
	groups := []string{"Air Conditioners", "Spare Parts", "Services"}
	categoryIDs := make([]id.CategoryID, 0, len(groups))
	for _, name := range groups {
		category, err := s.categories.CreateCategory(ctx, &catalogservice.CreateCategoryCommand{
			TenantID: tenantID,
			Name:     name,
		})
		if err != nil {
			return nil, err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	goods := []struct {
		category     int
		name         string
		sku          string
		barcode      string
		price        float64
		cost         float64
		stock        int
		lowStock     int
		maintainable bool
	}{
		{0, "Split AC 1 PK", "AC-1PK", "8991001000017", 3500000, 2850000, 12, 3, true},
		{0, "Split AC 2 PK", "AC-2PK", "8991001000024", 5250000, 4300000, 8, 2, true},
		{0, "Standing AC 5 PK", "AC-5PK", "8991001000031", 14500000, 12100000, 3, 1, true},
		{1, "R-32 Refrigerant Refill", "PART-R32", "8991001000048", 150000, 90000, 40, 10, false},
		{1, "Universal AC Remote", "PART-RMT", "8991001000055", 85000, 45000, 25, 5, false},
		{2, "AC Installation", "SVC-INSTALL", "", 350000, 0, 0, 0, false},
		{2, "Deep Cleaning Service", "SVC-CLEAN", "", 200000, 0, 0, 0, false},
	}

	products := make(map[string]id.ProductID, len(goods))
	for _, g := range goods {
		product, err := s.products.CreateProduct(ctx, &catalogservice.CreateProductCommand{
			TenantID:          tenantID,
			CategoryID:        categoryIDs[g.category],
			Name:              g.name,
			SKU:               g.sku,
			Barcode:           g.barcode,
			Price:             g.price,
			Cost:              g.cost,
			Stock:             g.stock,
			LowStockThreshold: g.lowStock,
			Maintainable:      g.maintainable,
		})
		if err != nil {
			return nil, err
		}
		products[g.sku] = product.ID
	}

	return products, nil
}

func (s *Seeder) seedCustomers(ctx context.Context, tenantID id.TenantID) ([]id.CustomerID, error) {
	patrons := []struct {
		name    string
		phone   string
		email   string
		address string
	}{
		{"PT Dingin Sejuk", "0811-2200-3301", "facilities@dinginsejuk.test", "Jl. Jend. Sudirman Kav. 52, Jakarta"},
		{"Rina Hartati", "0811-2200-3302", "", "Jl. Margonda Raya No. 45, Depok"},
		{"Toko Elektronik Jaya", "0811-2200-3303", "admin@elektronikjaya.test", "Jl. Fatmawati No. 101, Jakarta"},
	}

	ids := make([]id.CustomerID, 0, len(patrons))
	for _, p := range patrons {
		customer, err := s.customers.CreateCustomer(ctx, &customerservice.CreateCustomerCommand{
			TenantID: tenantID,
			Name:     p.name,
			Phone:    p.phone,
			Email:    p.email,
			Address:  p.address,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, customer.ID)
	}

	return ids, nil
}

// seedSale rings up the AC unit the demo contract will cover, with the
// remote discounted off the invoice.
func (s *Seeder) seedSale(ctx context.Context, tenantID id.TenantID, branchID id.BranchID, cashierID id.StaffID, customerID id.CustomerID, products map[string]id.ProductID) (*salemodels.Sale, error) {
	return s.register.CreateSale(ctx, &saleservice.CreateSaleCommand{
		TenantID:   tenantID,
		BranchID:   branchID,
		CashierID:  cashierID,
		CustomerID: customerID,
		Items: []saleservice.SaleLine{
			{ProductID: products["AC-1PK"], Quantity: 1},
			{ProductID: products["PART-RMT"], Quantity: 1},
		},
		Discount:      85000,
		Paid:          3500000,
		PaymentMethod: salemodels.PaymentTransfer,
	})
}

// seedContract opens a monthly agreement on the unit just sold. The period
// runs six months from the first of the current month, which schedules six
// visits starting on the period's first day.
func (s *Seeder) seedContract(ctx context.Context, tenantID id.TenantID, branchID id.BranchID, crew map[id.Role]id.StaffID, customerID id.CustomerID, sale *salemodels.Sale, products map[string]id.ProductID) (*maintmodels.Contract, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	return s.contracts.CreateContract(ctx, &maintservice.CreateContractCommand{
		TenantID:     tenantID,
		BranchID:     branchID,
		CustomerID:   customerID,
		SaleID:       sale.ID,
		TechnicianID: crew[id.RoleTechnician],
		Frequency:    maintmodels.FrequencyMonthly,
		StartDate:    start,
		EndDate:      start.AddDate(0, 6, -1),
		Notes:        "Sold with the unit; includes filter wash and refrigerant check.",
		CreatedBy:    crew[id.RoleMaintenance],
		Items: []maintservice.ContractItemLine{
			{
				ProductID: products["AC-1PK"],
				SerialNo:  "SJA-2026-0117",
				Quantity:  1,
				Notes:     "Server room unit",
			},
		},
	})
}
