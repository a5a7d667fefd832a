package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cataloghandler "fieldpos/internal/catalog/handler"
	catalogservice "fieldpos/internal/catalog/service"
	categorystore "fieldpos/internal/catalog/store/category"
	productstore "fieldpos/internal/catalog/store/product"
	customerhandler "fieldpos/internal/customer/handler"
	customerservice "fieldpos/internal/customer/service"
	customerstore "fieldpos/internal/customer/store/customer"
	"fieldpos/internal/jwtauth"
	maintadapters "fieldpos/internal/maintenance/adapters"
	mainthandler "fieldpos/internal/maintenance/handler"
	maintservice "fieldpos/internal/maintenance/service"
	contractstore "fieldpos/internal/maintenance/store/contract"
	visitstore "fieldpos/internal/maintenance/store/visit"
	"fieldpos/internal/platform/health"
	reporthandler "fieldpos/internal/report/handler"
	reportservice "fieldpos/internal/report/service"
	reportstore "fieldpos/internal/report/store"
	saleadapters "fieldpos/internal/sale/adapters"
	salehandler "fieldpos/internal/sale/handler"
	saleservice "fieldpos/internal/sale/service"
	salestore "fieldpos/internal/sale/store/sale"
	"fieldpos/internal/seeder"
	staffadapters "fieldpos/internal/staff/adapters"
	staffhandler "fieldpos/internal/staff/handler"
	staffservice "fieldpos/internal/staff/service"
	staffstore "fieldpos/internal/staff/store/staff"
	tenanthandler "fieldpos/internal/tenant/handler"
	tenantservice "fieldpos/internal/tenant/service"
	branchstore "fieldpos/internal/tenant/store/branch"
	tenantstore "fieldpos/internal/tenant/store/tenant"
)

const testAdminToken = "router-test-admin-token"

// newTestRouter assembles the full surface on memory stores with the demo
// dataset loaded, mirroring how demo mode boots.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tenants := tenantstore.NewInMemory()
	branches := branchstore.NewInMemory()
	staffStore := staffstore.NewInMemory()
	categories := categorystore.NewInMemory()
	products := productstore.NewInMemory()
	customers := customerstore.NewInMemory()
	sales := salestore.NewInMemory()
	contracts := contractstore.NewInMemory()
	visits := visitstore.NewInMemory()

	staffSvc := staffservice.NewStaffService(staffStore,
		staffservice.WithLogger(logger),
		staffservice.WithBranchDirectory(staffadapters.NewBranchDirectory(branches)),
	)
	gate := tenantservice.NewGate(tenants, nil, 0, logger, nil)
	tenantSvc := tenantservice.NewTenantService(tenants, branches,
		tenantservice.WithLogger(logger),
		tenantservice.WithOwnerProvisioner(staffSvc),
		tenantservice.WithStaffCounter(staffSvc),
		tenantservice.WithGate(gate),
	)
	branchSvc := tenantservice.NewBranchService(branches, tenants,
		tenantservice.WithLogger(logger),
	)
	categorySvc := catalogservice.NewCategoryService(categories,
		catalogservice.WithLogger(logger),
	)
	productSvc := catalogservice.NewProductService(products, categories,
		catalogservice.WithLogger(logger),
	)
	customerSvc := customerservice.NewCustomerService(customers,
		customerservice.WithLogger(logger),
	)
	saleSvc := saleservice.NewSaleService(sales, saleadapters.NewProductCatalog(products),
		saleservice.WithLogger(logger),
		saleservice.WithBranchDirectory(saleadapters.NewBranchDirectory(branches)),
		saleservice.WithCustomerDirectory(saleadapters.NewCustomerDirectory(customers)),
	)
	contractSvc := maintservice.NewContractService(contracts, visits, maintadapters.NewProductDirectory(products),
		maintservice.WithLogger(logger),
		maintservice.WithBranchDirectory(maintadapters.NewBranchDirectory(branches)),
		maintservice.WithCustomerDirectory(maintadapters.NewCustomerDirectory(customers)),
		maintservice.WithSaleDirectory(maintadapters.NewSaleDirectory(sales)),
		maintservice.WithStaffDirectory(maintadapters.NewStaffDirectory(staffStore)),
	)
	visitSvc := maintservice.NewVisitService(visits, contracts,
		maintservice.WithLogger(logger),
		maintservice.WithStaffDirectory(maintadapters.NewStaffDirectory(staffStore)),
	)
	sweeper := maintservice.NewSweeper(contracts, visits,
		maintservice.WithLogger(logger),
	)
	reportSrc := reportstore.NewMemory(reportstore.MemoryDeps{
		Sales:     sales,
		Contracts: contracts,
		Visits:    visits,
		Branches:  branches,
		Staff:     staffStore,
		Customers: customers,
	})
	reportSvc := reportservice.New(reportSrc, reportSrc,
		reportservice.WithLogger(logger),
	)

	require.NoError(t, seeder.New(seeder.Deps{
		Tenants:    tenantSvc,
		Branches:   branchSvc,
		Staff:      staffSvc,
		Categories: categorySvc,
		Products:   productSvc,
		Customers:  customerSvc,
		Register:   saleSvc,
		Contracts:  contractSvc,
	}, logger).SeedAll(ctx))

	jwtSvc := jwtauth.NewService("router-test-signing-key", "fieldpos", "fieldpos-api", time.Hour)

	return NewRouter(Handlers{
		Health:      health.New("test"),
		Tenants:     tenanthandler.New(tenantSvc, branchSvc, logger),
		Staff:       staffhandler.New(staffSvc, staffSvc, jwtSvc, logger),
		Catalog:     cataloghandler.New(categorySvc, productSvc, logger),
		Customers:   customerhandler.New(customerSvc, logger),
		Sales:       salehandler.New(saleSvc, logger),
		Maintenance: mainthandler.New(contractSvc, visitSvc, sweeper, logger),
		Reports:     reporthandler.New(reportSvc, logger),
	}, Config{
		TokenValidator: jwtauth.NewServiceAdapter(jwtSvc),
		TenantGate:     gate,
		AdminToken:     testAdminToken,
	}, logger)
}

func call(t *testing.T, router http.Handler, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec := call(t, router, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// TestRouter drives the assembled surface the way the demo environment is
// used: login per role, work the register, check the permission walls, and
// operate the tenant through the admin prefix.
func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	t.Run("health and metrics are public", func(t *testing.T) {
		rec := call(t, router, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = call(t, router, http.MethodGet, "/metrics", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("login rejects bad credentials", func(t *testing.T) {
		rec := call(t, router, http.MethodPost, "/api/auth/login", nil, map[string]string{
			"email":    "owner@sejukabadi.test",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected routes demand a token", func(t *testing.T) {
		rec := call(t, router, http.MethodGet, "/api/pos/products", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = call(t, router, http.MethodGet, "/api/pos/products", bearer("not-a-token"), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cashier works the register", func(t *testing.T) {
		token := login(t, router, "sari@sejukabadi.test", "password")

		rec := call(t, router, http.MethodGet, "/api/pos/products/lookup?code=PART-RMT", bearer(token), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		product := decodeBody(t, rec)
		require.Equal(t, "Universal AC Remote", product["name"])
		assert.InDelta(t, 24, product["stock"], 0.001)

		rec = call(t, router, http.MethodPost, "/api/pos/sales", bearer(token), map[string]any{
			"items":          []map[string]any{{"product_id": product["id"], "quantity": 1}},
			"paid":           85000,
			"payment_method": "cash",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		sale := decodeBody(t, rec)
		assert.InDelta(t, 85000, sale["total"], 0.001)
		assert.NotEmpty(t, sale["invoice_no"])

		rec = call(t, router, http.MethodGet, "/api/pos/products/lookup?code=PART-RMT", bearer(token), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 23, decodeBody(t, rec)["stock"], 0.001)
	})

	t.Run("cashier cannot reach the back office", func(t *testing.T) {
		token := login(t, router, "sari@sejukabadi.test", "password")
		rec := call(t, router, http.MethodGet, "/api/business/staff", bearer(token), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner runs the back office", func(t *testing.T) {
		token := login(t, router, "owner@sejukabadi.test", "password")

		rec := call(t, router, http.MethodGet, "/api/business/staff", bearer(token), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.InDelta(t, 4, decodeBody(t, rec)["total"], 0.001)

		rec = call(t, router, http.MethodGet, "/api/business/reports/sales", bearer(token), nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("technician sees only the field surface", func(t *testing.T) {
		token := login(t, router, "joko@sejukabadi.test", "password")

		rec := call(t, router, http.MethodGet, "/api/technician/visits", bearer(token), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.InDelta(t, 6, decodeBody(t, rec)["total"], 0.001)

		rec = call(t, router, http.MethodGet, "/api/maintenance/contracts", bearer(token), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("maintenance desk reads contracts and customers", func(t *testing.T) {
		token := login(t, router, "agus@sejukabadi.test", "password")

		rec := call(t, router, http.MethodGet, "/api/maintenance/contracts", bearer(token), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.InDelta(t, 1, decodeBody(t, rec)["total"], 0.001)

		rec = call(t, router, http.MethodGet, "/api/maintenance/customers", bearer(token), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = call(t, router, http.MethodPost, "/api/pos/sales", bearer(token), map[string]any{
			"items": []map[string]any{}, "paid": 0, "payment_method": "cash",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin prefix takes the bootstrap token", func(t *testing.T) {
		rec := call(t, router, http.MethodGet, "/api/admin/tenants", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = call(t, router, http.MethodGet, "/api/admin/tenants", map[string]string{"X-Admin-Token": testAdminToken}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.InDelta(t, 1, decodeBody(t, rec)["total"], 0.001)
	})

	t.Run("deactivated tenant locks out its staff", func(t *testing.T) {
		adminHeader := map[string]string{"X-Admin-Token": testAdminToken}
		rec := call(t, router, http.MethodGet, "/api/admin/tenants", adminHeader, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tenantList := decodeBody(t, rec)["tenants"].([]any)
		require.Len(t, tenantList, 1)
		tenantID := tenantList[0].(map[string]any)["id"].(string)

		staffToken := login(t, router, "sari@sejukabadi.test", "password")

		rec = call(t, router, http.MethodPost, "/api/admin/tenants/"+tenantID+"/deactivate", adminHeader, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = call(t, router, http.MethodGet, "/api/pos/products", bearer(staffToken), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = call(t, router, http.MethodPost, "/api/admin/tenants/"+tenantID+"/reactivate", adminHeader, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = call(t, router, http.MethodGet, "/api/pos/products", bearer(staffToken), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
