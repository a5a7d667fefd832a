package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"fieldpos/internal/authz"
	customermodels "fieldpos/internal/customer/models"
	customerstore "fieldpos/internal/customer/store/customer"
	maintmodels "fieldpos/internal/maintenance/models"
	contractstore "fieldpos/internal/maintenance/store/contract"
	visitstore "fieldpos/internal/maintenance/store/visit"
	"fieldpos/internal/report/service"
	"fieldpos/internal/report/store"
	salemodels "fieldpos/internal/sale/models"
	salestore "fieldpos/internal/sale/store/sale"
	staffmodels "fieldpos/internal/staff/models"
	staffstore "fieldpos/internal/staff/store/staff"
	tenantmodels "fieldpos/internal/tenant/models"
	branchstore "fieldpos/internal/tenant/store/branch"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/platform/middleware/metadata"
	"fieldpos/pkg/requestcontext"
)

// HandlerSuite runs the report endpoints against the real service over
// the memory source, mounted under /api/business behind the same
// metadata middleware and permission group the server uses.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	sales     *salestore.InMemory
	contracts *contractstore.InMemory
	visits    *visitstore.InMemory
	branches  *branchstore.InMemory
	staff     *staffstore.InMemory
	customers *customerstore.InMemory
	tenantID  id.TenantID
	branchID  id.BranchID
	cashierID id.StaffID
	actor     requestcontext.Actor
}

func (s *HandlerSuite) SetupTest() {
	s.sales = salestore.NewInMemory()
	s.contracts = contractstore.NewInMemory()
	s.visits = visitstore.NewInMemory()
	s.branches = branchstore.NewInMemory()
	s.staff = staffstore.NewInMemory()
	s.customers = customerstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.tenantID = id.TenantID(uuid.New())
	s.branchID = s.seedBranch("Main Branch")
	s.cashierID = s.seedCashier("Sari", "sari@acme.test")

	src := store.NewMemory(store.MemoryDeps{
		Sales:     s.sales,
		Contracts: s.contracts,
		Visits:    s.visits,
		Branches:  s.branches,
		Staff:     s.staff,
		Customers: s.customers,
	})
	svc := service.New(src, src, service.WithLogger(logger))
	h := New(svc, logger)
	meta := metadata.NewMiddleware(nil)

	r := chi.NewRouter()
	r.Route("/api/business", func(r chi.Router) {
		r.Use(meta.Handler)
		r.Use(s.injectActor())
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermReportsRead, logger))
			h.RegisterReports(r)
		})
	})
	s.router = r

	s.actor = requestcontext.Actor{
		StaffID:  id.StaffID(uuid.New()),
		TenantID: s.tenantID,
		Role:     id.RoleOwner,
	}
}

func (s *HandlerSuite) injectActor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.actor.Role != "" {
				r = r.WithContext(requestcontext.WithActor(r.Context(), s.actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *HandlerSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) seedBranch(name string) id.BranchID {
	branch, err := tenantmodels.NewBranch(id.BranchID(uuid.New()), s.tenantID, name, "", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.branches.Create(context.Background(), branch))
	return branch.ID
}

func (s *HandlerSuite) seedCashier(name, email string) id.StaffID {
	member, err := staffmodels.NewStaff(staffmodels.NewStaffParams{
		ID:           id.StaffID(uuid.New()),
		TenantID:     s.tenantID,
		BranchID:     s.branchID,
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         id.RoleCashier,
	}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.staff.Create(context.Background(), member))
	return member.ID
}

func (s *HandlerSuite) seedCustomer(name string) id.CustomerID {
	customer, err := customermodels.NewCustomer(id.CustomerID(uuid.New()), s.tenantID, customermodels.ContactDetails{
		Name:  name,
		Phone: "+96171000000",
	}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.customers.Create(context.Background(), customer))
	return customer.ID
}

func (s *HandlerSuite) seedSale(invoice string, at time.Time, branchID id.BranchID, customerID id.CustomerID, status salemodels.SaleStatus, total float64, items ...*salemodels.SaleItem) {
	saleID := id.SaleID(uuid.New())
	for _, item := range items {
		item.ID = id.SaleItemID(uuid.New())
		item.SaleID = saleID
	}
	s.Require().NoError(s.sales.Create(context.Background(), &salemodels.Sale{
		ID:            saleID,
		TenantID:      s.tenantID,
		BranchID:      branchID,
		CashierID:     s.cashierID,
		CustomerID:    customerID,
		InvoiceNo:     invoice,
		Subtotal:      total,
		Total:         total,
		Paid:          total,
		PaymentMethod: "cash",
		Status:        status,
		Items:         items,
		CreatedAt:     at,
		UpdatedAt:     at,
	}))
}

// seedJanuarySales books two completed January sales, 240 in revenue,
// and one voided sale that only the export should surface.
func (s *HandlerSuite) seedJanuarySales() {
	customerID := s.seedCustomer("PT Dingin Sejuk")
	acID := id.ProductID(uuid.New())
	freonID := id.ProductID(uuid.New())

	s.seedSale("INV-0001", time.Date(2026, 1, 5, 11, 45, 0, 0, time.UTC), s.branchID, customerID, salemodels.SaleStatusCompleted, 180,
		&salemodels.SaleItem{ProductID: acID, ProductName: "Split AC Unit", UnitPrice: 150, Quantity: 1, LineTotal: 150},
		&salemodels.SaleItem{ProductID: freonID, ProductName: "Freon Refill", UnitPrice: 15, Quantity: 2, LineTotal: 30},
	)
	s.seedSale("INV-0002", time.Date(2026, 1, 20, 16, 20, 0, 0, time.UTC), s.branchID, id.CustomerID{}, salemodels.SaleStatusCompleted, 60,
		&salemodels.SaleItem{ProductID: freonID, ProductName: "Freon Refill", UnitPrice: 15, Quantity: 4, LineTotal: 60},
	)
	s.seedSale("INV-0003", time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC), s.branchID, id.CustomerID{}, salemodels.SaleStatusVoided, 999)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestSalesSummary() {
	s.seedJanuarySales()

	rec := s.get("/api/business/reports/sales?from=2026-01-01&to=2026-01-31")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	resp := s.decode(rec)

	s.Equal("2026-01-01", resp["from"])
	s.Equal("2026-01-31", resp["to"])
	s.Equal(240.0, resp["revenue"], "voided sales do not count")
	s.Equal(float64(2), resp["sale_count"])
	s.Equal(120.0, resp["average_ticket"])

	top, ok := resp["top_products"].([]any)
	s.Require().True(ok)
	s.Require().Len(top, 2)
	first, ok := top[0].(map[string]any)
	s.Require().True(ok)
	s.Equal("Freon Refill", first["product_name"], "units sold rank first")
	s.Equal(float64(6), first["quantity"])
}

func (s *HandlerSuite) TestSalesSummary_BranchFilter() {
	s.seedJanuarySales()
	airport := s.seedBranch("Airport")
	s.seedSale("INV-0100", time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC), airport, id.CustomerID{}, salemodels.SaleStatusCompleted, 75)

	rec := s.get("/api/business/reports/sales?from=2026-01-01&to=2026-01-31&branch_id=" + airport.String())
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	resp := s.decode(rec)

	s.Equal(airport.String(), resp["branch_id"])
	s.Equal(75.0, resp["revenue"])
	s.Equal(float64(1), resp["sale_count"])
}

func (s *HandlerSuite) TestSalesSummary_DefaultPeriod() {
	rec := s.get("/api/business/reports/sales")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	resp := s.decode(rec)
	s.NotEmpty(resp["from"])
	s.NotEmpty(resp["to"])
}

func (s *HandlerSuite) TestSalesSummary_BadParams() {
	s.Run("malformed from", func() {
		rec := s.get("/api/business/reports/sales?from=Jan-1&to=2026-01-31")
		s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	})
	s.Run("malformed branch id", func() {
		rec := s.get("/api/business/reports/sales?from=2026-01-01&to=2026-01-31&branch_id=not-a-uuid")
		s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	})
	s.Run("from without to", func() {
		rec := s.get("/api/business/reports/sales?from=2026-01-01")
		s.Require().Equal(http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		resp := s.decode(rec)
		fields, ok := resp["fields"].(map[string]any)
		s.Require().True(ok)
		s.Contains(fields, "to")
	})
}

func (s *HandlerSuite) TestMaintenanceSummary() {
	customerID := s.seedCustomer("Rima Khoury")
	statuses := []maintmodels.ContractStatus{
		maintmodels.ContractStatusActive,
		maintmodels.ContractStatusActive,
		maintmodels.ContractStatusExpired,
		maintmodels.ContractStatusCancelled,
	}
	contractID := id.ContractID(uuid.New())
	for i, status := range statuses {
		cid := contractID
		if i > 0 {
			cid = id.ContractID(uuid.New())
		}
		s.Require().NoError(s.contracts.Create(context.Background(), &maintmodels.Contract{
			ID: cid, TenantID: s.tenantID, BranchID: s.branchID, CustomerID: customerID,
			ContractNo: fmt.Sprintf("CON-%04d", i+1), Frequency: maintmodels.FrequencyMonthly,
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			Status:    status, TotalVisits: 6,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}
	visit := func(day time.Time, status maintmodels.VisitStatus, seq int) *maintmodels.Visit {
		return &maintmodels.Visit{
			ID: id.VisitID(uuid.New()), ContractID: contractID, TenantID: s.tenantID, BranchID: s.branchID,
			Sequence: seq, ScheduledDate: day, Status: status,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
	}
	s.Require().NoError(s.visits.CreateBatch(context.Background(), []*maintmodels.Visit{
		visit(time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), maintmodels.VisitStatusCompleted, 1),
		visit(time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), maintmodels.VisitStatusMissed, 2),
		// Far enough out to stay upcoming whenever the test runs.
		visit(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), maintmodels.VisitStatusScheduled, 3),
	}))

	rec := s.get("/api/business/reports/maintenance?from=2026-01-01&to=2026-01-31")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	resp := s.decode(rec)

	contracts, ok := resp["contracts"].(map[string]any)
	s.Require().True(ok)
	s.Equal(float64(2), contracts["active"])
	s.Equal(float64(1), contracts["expired"])
	s.Equal(float64(1), contracts["cancelled"])
	s.Equal(float64(1), resp["visits_completed"])
	s.Equal(float64(1), resp["visits_missed"])
	s.Equal(float64(1), resp["upcoming_visits"])
}

func (s *HandlerSuite) TestSalesExport() {
	s.seedJanuarySales()

	rec := s.get("/api/business/reports/sales/export?from=2026-01-01&to=2026-01-31")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="sales_2026-01-01_2026-01-31.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close() //nolint:errcheck // read-only workbook

	rows, err := f.GetRows("Sales")
	s.Require().NoError(err)
	s.Require().Len(rows, 4, "header plus all three sales, the voided one included")

	invoice, err := f.GetCellValue("Sales", "A2")
	s.Require().NoError(err)
	s.Equal("INV-0001", invoice)
	branch, err := f.GetCellValue("Sales", "C2")
	s.Require().NoError(err)
	s.Equal("Main Branch", branch)
	cashier, err := f.GetCellValue("Sales", "D2")
	s.Require().NoError(err)
	s.Equal("Sari", cashier)
}

func (s *HandlerSuite) TestReportsDeniedForCashier() {
	s.actor.Role = id.RoleCashier
	s.actor.BranchID = s.branchID

	rec := s.get("/api/business/reports/sales")
	s.Equal(http.StatusForbidden, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestReportsRequireAuth() {
	s.actor = requestcontext.Actor{}

	rec := s.get("/api/business/reports/sales")
	s.Equal(http.StatusUnauthorized, rec.Code, rec.Body.String())
}
