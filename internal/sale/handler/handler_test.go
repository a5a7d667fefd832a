package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks SaleService

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fieldpos/internal/authz"
	catalogmodels "fieldpos/internal/catalog/models"
	productstore "fieldpos/internal/catalog/store/product"
	customermodels "fieldpos/internal/customer/models"
	customerstore "fieldpos/internal/customer/store/customer"
	"fieldpos/internal/sale/adapters"
	"fieldpos/internal/sale/handler/mocks"
	"fieldpos/internal/sale/service"
	salestore "fieldpos/internal/sale/store/sale"
	tenantmodels "fieldpos/internal/tenant/models"
	branchstore "fieldpos/internal/tenant/store/branch"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/platform/middleware/metadata"
	"fieldpos/pkg/requestcontext"
)

const registerUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HandlerSuite runs the handlers against a real service on memory stores,
// wired through the same adapters, metadata middleware, and permission
// groups the server mounts. Stock assertions read the catalog store
// directly, because ringing up and voiding must move real inventory.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	products  *productstore.InMemory
	customers *customerstore.InMemory
	branches  *branchstore.InMemory
	tenantID  id.TenantID
	branchID  id.BranchID
	actor     requestcontext.Actor
}

func (s *HandlerSuite) SetupTest() {
	sales := salestore.NewInMemory()
	s.products = productstore.NewInMemory()
	s.customers = customerstore.NewInMemory()
	s.branches = branchstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.tenantID = id.TenantID(uuid.New())
	s.branchID = s.seedBranch(s.tenantID, "Main Branch")

	saleSvc := service.NewSaleService(sales, adapters.NewProductCatalog(s.products),
		service.WithLogger(logger),
		service.WithCustomerDirectory(adapters.NewCustomerDirectory(s.customers)),
		service.WithBranchDirectory(adapters.NewBranchDirectory(s.branches)),
	)

	h := New(saleSvc, logger)
	meta := metadata.NewMiddleware(nil)

	r := chi.NewRouter()
	r.Route("/api/pos", func(r chi.Router) {
		r.Use(meta.Handler)
		r.Use(s.injectActor())
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesCreate, logger))
			h.RegisterCreate(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesRead, logger))
			h.RegisterRead(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesVoid, logger))
			h.RegisterVoid(r)
		})
	})
	s.router = r

	s.actor = requestcontext.Actor{
		StaffID:  id.StaffID(uuid.New()),
		TenantID: s.tenantID,
		BranchID: s.branchID,
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

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", registerUserAgent)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) seedBranch(tenantID id.TenantID, name string) id.BranchID {
	branch, err := tenantmodels.NewBranch(id.BranchID(uuid.New()), tenantID, name, "", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.branches.Create(context.Background(), branch))
	return branch.ID
}

func (s *HandlerSuite) seedProduct(name string, price float64, stock int) *catalogmodels.Product {
	product, err := catalogmodels.NewProduct(id.ProductID(uuid.New()), s.tenantID, catalogmodels.ProductDetails{
		Name:  name,
		Price: price,
	}, stock, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.products.Create(context.Background(), product))
	return product
}

func (s *HandlerSuite) seedCustomer(name, phone string) *customermodels.Customer {
	customer, err := customermodels.NewCustomer(id.CustomerID(uuid.New()), s.tenantID, customermodels.ContactDetails{
		Name:  name,
		Phone: phone,
	}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.customers.Create(context.Background(), customer))
	return customer
}

func (s *HandlerSuite) stockOf(productID id.ProductID) int {
	product, err := s.products.FindByTenantAndID(context.Background(), s.tenantID, productID)
	s.Require().NoError(err)
	return product.Stock
}

func (s *HandlerSuite) ringUp(body map[string]any) map[string]any {
	rec := s.do(http.MethodPost, "/api/pos/sales", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return s.decode(rec)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestCreateSale() {
	fridge := s.seedProduct("Fridge Filter", 45.50, 10)
	hose := s.seedProduct("Drain Hose", 12.25, 5)
	customer := s.seedCustomer("Amal Haddad", "+96170123456")

	resp := s.ringUp(map[string]any{
		"customer_id": customer.ID.String(),
		"items": []map[string]any{
			{"product_id": fridge.ID.String(), "quantity": 2},
			{"product_id": hose.ID.String(), "quantity": 1},
		},
		"discount":       3.25,
		"paid":           100,
		"payment_method": "card",
	})

	s.Equal("completed", resp["status"])
	s.Equal("card", resp["payment_method"])
	s.Equal(103.25, resp["subtotal"])
	s.Equal(3.25, resp["discount"])
	s.Equal(100.0, resp["total"])
	s.Equal(0.0, resp["change"])
	s.Equal(customer.ID.String(), resp["customer_id"])
	s.Contains(resp["invoice_no"], "INV-")
	s.Contains(resp["device"], "Chrome")

	items, ok := resp["items"].([]any)
	s.Require().True(ok)
	s.Len(items, 2)

	s.Equal(8, s.stockOf(fridge.ID), "ringing up moves stock")
	s.Equal(4, s.stockOf(hose.ID))
}

func (s *HandlerSuite) TestCreateSale_DefaultsToCash() {
	product := s.seedProduct("Drain Hose", 10, 5)

	resp := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  10,
	})
	s.Equal("cash", resp["payment_method"])
}

func (s *HandlerSuite) TestCreateSale_MergesRepeatScans() {
	product := s.seedProduct("Drain Hose", 10, 5)

	resp := s.ringUp(map[string]any{
		"items": []map[string]any{
			{"product_id": product.ID.String(), "quantity": 1},
			{"product_id": product.ID.String(), "quantity": 2},
		},
		"paid": 30,
	})

	items, ok := resp["items"].([]any)
	s.Require().True(ok)
	s.Require().Len(items, 1, "repeat scans collapse into one line")
	line, ok := items[0].(map[string]any)
	s.Require().True(ok)
	s.Equal(float64(3), line["quantity"])
	s.Equal(2, s.stockOf(product.ID))
}

func (s *HandlerSuite) TestCreateSale_InsufficientStock() {
	product := s.seedProduct("Fridge Filter", 45.50, 1)

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 2}},
		"paid":  91,
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "Fridge Filter", "the register names the product that ran out")
	s.Equal(1, s.stockOf(product.ID), "a rejected sale takes nothing")
}

func (s *HandlerSuite) TestCreateSale_FailedSaleLeavesStockUntouched() {
	plenty := s.seedProduct("Drain Hose", 10, 50)
	empty := s.seedProduct("Fridge Filter", 45.50, 0)

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items": []map[string]any{
			{"product_id": plenty.ID.String(), "quantity": 2},
			{"product_id": empty.ID.String(), "quantity": 1},
		},
		"paid": 100,
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(50, s.stockOf(plenty.ID), "stock taken before the failure comes back")
	s.Equal(0, s.stockOf(empty.ID))
}

func (s *HandlerSuite) TestCreateSale_UnknownProduct() {
	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items": []map[string]any{{"product_id": uuid.NewString(), "quantity": 1}},
		"paid":  10,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "items[0].product_id")
}

func (s *HandlerSuite) TestCreateSale_InactiveProduct() {
	product := s.seedProduct("Fridge Filter", 45.50, 10)
	s.Require().NoError(product.Deactivate(time.Now()))
	s.Require().NoError(s.products.Update(context.Background(), product))

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  50,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields["items[0].product_id"], "inactive")
}

func (s *HandlerSuite) TestCreateSale_ValidationFields() {
	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items":          []map[string]any{},
		"paid":           -5,
		"payment_method": "barter",
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "items")
	s.Contains(fields, "paid")
	s.Contains(fields, "payment_method")
}

func (s *HandlerSuite) TestCreateSale_UnderPaid() {
	product := s.seedProduct("Fridge Filter", 45.50, 10)

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  20,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "paid")
	s.Equal(10, s.stockOf(product.ID), "payment is checked before stock moves")
}

func (s *HandlerSuite) TestCreateSale_WalkIn() {
	product := s.seedProduct("Drain Hose", 10, 5)

	resp := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  10,
	})
	s.NotContains(resp, "customer_id", "walk-in sales carry no customer")
}

func (s *HandlerSuite) TestCreateSale_UnknownCustomer() {
	product := s.seedProduct("Drain Hose", 10, 5)

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"customer_id": uuid.NewString(),
		"items":       []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":        10,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "customer_id")
}

func (s *HandlerSuite) TestCreateSale_UnknownBranch() {
	product := s.seedProduct("Drain Hose", 10, 5)

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{
		"branch_id": uuid.NewString(),
		"items":     []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":      10,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	fields, ok := s.decode(rec)["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "branch_id")
}

func (s *HandlerSuite) TestCashierSellsAtOwnBranch() {
	other := s.seedBranch(s.tenantID, "Second Branch")
	product := s.seedProduct("Drain Hose", 10, 5)

	s.actor.Role = id.RoleCashier

	resp := s.ringUp(map[string]any{
		"branch_id": other.String(),
		"items":     []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":      10,
	})
	s.Equal(s.branchID.String(), resp["branch_id"], "cashiers ring at their own branch no matter what the payload says")
}

func (s *HandlerSuite) TestGetSale() {
	product := s.seedProduct("Fridge Filter", 45.50, 10)
	created := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  45.50,
	})

	rec := s.do(http.MethodGet, "/api/pos/sales/"+created["id"].(string), nil)
	s.Equal(http.StatusOK, rec.Code)

	resp := s.decode(rec)
	s.Equal(created["invoice_no"], resp["invoice_no"])
	items, ok := resp["items"].([]any)
	s.Require().True(ok)
	s.Len(items, 1)
}

func (s *HandlerSuite) TestGetSale_NotFound() {
	rec := s.do(http.MethodGet, "/api/pos/sales/"+uuid.NewString(), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestGetSale_BadID() {
	rec := s.do(http.MethodGet, "/api/pos/sales/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSaleIsolation() {
	product := s.seedProduct("Fridge Filter", 45.50, 10)
	created := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  45.50,
	})

	s.actor.TenantID = id.TenantID(uuid.New())

	rec := s.do(http.MethodGet, "/api/pos/sales/"+created["id"].(string), nil)
	s.Equal(http.StatusNotFound, rec.Code, "another tenant's sale looks missing, not forbidden")
}

func (s *HandlerSuite) TestListSales() {
	product := s.seedProduct("Drain Hose", 10, 50)
	for range 3 {
		s.ringUp(map[string]any{
			"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
			"paid":  10,
		})
	}

	rec := s.do(http.MethodGet, "/api/pos/sales", nil)
	s.Equal(http.StatusOK, rec.Code)

	resp := s.decode(rec)
	s.Equal(float64(3), resp["total"])
	rows, ok := resp["sales"].([]any)
	s.Require().True(ok)
	s.Require().Len(rows, 3)
	first, ok := rows[0].(map[string]any)
	s.Require().True(ok)
	s.NotContains(first, "items", "list rows stay light")

	// Date-range filters take whole days.
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	rec = s.do(http.MethodGet, "/api/pos/sales?from="+today+"&to="+today, nil)
	s.Equal(float64(3), s.decode(rec)["total"])

	rec = s.do(http.MethodGet, "/api/pos/sales?from="+tomorrow, nil)
	s.Equal(float64(0), s.decode(rec)["total"])
}

func (s *HandlerSuite) TestListSales_StatusFilter() {
	product := s.seedProduct("Drain Hose", 10, 50)
	kept := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  10,
	})
	voided := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  10,
	})
	rec := s.do(http.MethodPost, "/api/pos/sales/"+voided["id"].(string)+"/void", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/pos/sales?status=voided", nil)
	resp := s.decode(rec)
	s.Equal(float64(1), resp["total"])
	rows, ok := resp["sales"].([]any)
	s.Require().True(ok)
	s.Require().Len(rows, 1)
	row, ok := rows[0].(map[string]any)
	s.Require().True(ok)
	s.Equal(voided["id"], row["id"])
	s.NotEqual(kept["id"], row["id"])
}

func (s *HandlerSuite) TestListSales_InvalidFilters() {
	rec := s.do(http.MethodGet, "/api/pos/sales?branch_id=not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/pos/sales?from=13-01-2026", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/pos/sales?status=refunded", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestListSales_CashierBranchBound() {
	other := s.seedBranch(s.tenantID, "Second Branch")
	product := s.seedProduct("Drain Hose", 10, 50)

	s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":  10,
	})
	s.ringUp(map[string]any{
		"branch_id": other.String(),
		"items":     []map[string]any{{"product_id": product.ID.String(), "quantity": 1}},
		"paid":      10,
	})

	s.actor.Role = id.RoleCashier
	s.actor.BranchID = other

	rec := s.do(http.MethodGet, "/api/pos/sales", nil)
	resp := s.decode(rec)
	s.Equal(float64(1), resp["total"], "cashiers browse their branch only")

	// Asking for another branch does not widen the view.
	rec = s.do(http.MethodGet, "/api/pos/sales?branch_id="+s.branchID.String(), nil)
	s.Equal(float64(1), s.decode(rec)["total"])
}

func (s *HandlerSuite) TestVoidSale() {
	product := s.seedProduct("Fridge Filter", 45.50, 10)
	created := s.ringUp(map[string]any{
		"items": []map[string]any{{"product_id": product.ID.String(), "quantity": 2}},
		"paid":  91,
	})
	s.Require().Equal(8, s.stockOf(product.ID))

	rec := s.do(http.MethodPost, "/api/pos/sales/"+created["id"].(string)+"/void", nil)
	s.Equal(http.StatusOK, rec.Code)

	resp := s.decode(rec)
	s.Equal("voided", resp["status"])
	s.NotEmpty(resp["voided_at"])
	s.Equal(10, s.stockOf(product.ID), "voiding puts the stock back")

	rec = s.do(http.MethodPost, "/api/pos/sales/"+created["id"].(string)+"/void", nil)
	s.Equal(http.StatusConflict, rec.Code, "a sale voids once")
	s.Equal(10, s.stockOf(product.ID))
}

func (s *HandlerSuite) TestVoidSale_NotFound() {
	rec := s.do(http.MethodPost, "/api/pos/sales/"+uuid.NewString()+"/void", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestTechnicianCannotSell() {
	s.actor.Role = id.RoleTechnician

	rec := s.do(http.MethodPost, "/api/pos/sales", map[string]any{})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/pos/sales", nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestUnauthenticated() {
	s.actor = requestcontext.Actor{}

	rec := s.do(http.MethodGet, "/api/pos/sales", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

// newMockHandler wires the handler to a gomock service for failure paths
// the real stack cannot produce.
func newMockHandler(t *testing.T) (http.Handler, *mocks.MockSaleService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sales := mocks.NewMockSaleService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(sales, logger)

	actor := requestcontext.Actor{
		StaffID:  id.StaffID(uuid.New()),
		TenantID: id.TenantID(uuid.New()),
		BranchID: id.BranchID(uuid.New()),
		Role:     id.RoleOwner,
	}

	r := chi.NewRouter()
	r.Route("/api/pos", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(requestcontext.WithActor(req.Context(), actor)))
			})
		})
		h.RegisterCreate(r)
		h.RegisterRead(r)
	})
	return r, sales
}

func TestCreateSale_ServiceFailure(t *testing.T) {
	router, sales := newMockHandler(t)

	sales.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("store offline"))

	body := bytes.NewBufferString(`{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}],"paid":10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/pos/sales", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateSale_MalformedJSON(t *testing.T) {
	router, _ := newMockHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pos/sales", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
