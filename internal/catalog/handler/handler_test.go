package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks CategoryService,ProductService

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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fieldpos/internal/authz"
	"fieldpos/internal/catalog/handler/mocks"
	"fieldpos/internal/catalog/models"
	"fieldpos/internal/catalog/service"
	categorystore "fieldpos/internal/catalog/store/category"
	productstore "fieldpos/internal/catalog/store/product"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/requestcontext"
)

// HandlerSuite runs the handlers against real services on memory stores,
// with the same actor and permission middleware the server wires up. The
// business group requires catalog management, the POS group only read
// access, exactly as in production.
type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	categorySvc *service.CategoryService
	productSvc  *service.ProductService
	tenantID    id.TenantID
	actor       requestcontext.Actor
}

func (s *HandlerSuite) SetupTest() {
	categories := categorystore.NewInMemory()
	products := productstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.tenantID = id.TenantID(uuid.New())
	s.categorySvc = service.NewCategoryService(categories)
	s.productSvc = service.NewProductService(products, categories, service.WithLogger(logger))

	h := New(s.categorySvc, s.productSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/business", func(r chi.Router) {
		r.Use(s.injectActor())
		r.Use(authz.Require(authz.PermCatalogManage, logger))
		h.RegisterBusiness(r)
	})
	r.Route("/api/pos", func(r chi.Router) {
		r.Use(s.injectActor())
		r.Use(authz.Require(authz.PermCatalogRead, logger))
		h.RegisterRead(r)
	})
	s.router = r

	s.actor = requestcontext.Actor{
		StaffID:  id.StaffID(uuid.New()),
		TenantID: s.tenantID,
		Role:     id.RoleOwner,
	}
}

// injectActor plays the part of auth middleware: it reads the actor the test
// configured on the suite. A zero actor simulates an unauthenticated request.
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
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) seedCategory(name string) *models.Category {
	category, err := s.categorySvc.CreateCategory(context.Background(), &service.CreateCategoryCommand{
		TenantID: s.tenantID,
		Name:     name,
	})
	s.Require().NoError(err)
	return category
}

func (s *HandlerSuite) seedProduct(tenantID id.TenantID, name, sku, barcode string, price float64, stock int) *models.Product {
	product, err := s.productSvc.CreateProduct(context.Background(), &service.CreateProductCommand{
		TenantID: tenantID,
		Name:     name,
		SKU:      sku,
		Barcode:  barcode,
		Price:    price,
		Stock:    stock,
	})
	s.Require().NoError(err)
	return product
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestCreateCategory() {
	rec := s.do(http.MethodPost, "/api/business/categories", map[string]any{"name": "  Air Conditioners  "})
	s.Equal(http.StatusCreated, rec.Code)

	resp := s.decode(rec)
	s.Equal("Air Conditioners", resp["name"])
	s.Equal("active", resp["status"])
	s.NotEmpty(resp["id"])
}

func (s *HandlerSuite) TestCreateCategory_ValidationFields() {
	rec := s.do(http.MethodPost, "/api/business/categories", map[string]any{"name": ""})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decode(rec)
	fields, ok := resp["fields"].(map[string]any)
	s.Require().True(ok, "expected per-field messages, got %v", resp)
	s.Contains(fields, "name")
}

func (s *HandlerSuite) TestCreateCategory_DuplicateName() {
	s.seedCategory("Fridges")

	rec := s.do(http.MethodPost, "/api/business/categories", map[string]any{"name": "FRIDGES"})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestListCategories() {
	s.seedCategory("Fridges")
	s.seedCategory("Air Conditioners")

	rec := s.do(http.MethodGet, "/api/business/categories", nil)
	s.Equal(http.StatusOK, rec.Code)

	resp := s.decode(rec)
	categories, ok := resp["categories"].([]any)
	s.Require().True(ok)
	s.Require().Len(categories, 2)
	first, ok := categories[0].(map[string]any)
	s.Require().True(ok)
	s.Equal("Air Conditioners", first["name"], "sorted by name")
}

func (s *HandlerSuite) TestUpdateCategory() {
	category := s.seedCategory("Fridges")

	rec := s.do(http.MethodPut, "/api/business/categories/"+category.ID.String(), map[string]any{"name": "Refrigerators"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Refrigerators", s.decode(rec)["name"])
}

func (s *HandlerSuite) TestCategoryStatusEndpoints() {
	category := s.seedCategory("Fridges")
	path := "/api/business/categories/" + category.ID.String()

	rec := s.do(http.MethodPost, path+"/deactivate", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("inactive", s.decode(rec)["status"])

	// A second deactivate is a conflict, not a no-op.
	rec = s.do(http.MethodPost, path+"/deactivate", nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, path+"/reactivate", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("active", s.decode(rec)["status"])
}

func (s *HandlerSuite) TestCreateProduct() {
	category := s.seedCategory("Air Conditioners")

	rec := s.do(http.MethodPost, "/api/business/products", map[string]any{
		"category_id":         category.ID.String(),
		"name":                "Split AC 1.5 Ton",
		"sku":                 "AC-1500",
		"barcode":             "6291041500214",
		"price":               1899.0,
		"cost":                1400.0,
		"stock":               10,
		"low_stock_threshold": 3,
		"maintainable":        true,
	})
	s.Equal(http.StatusCreated, rec.Code)

	resp := s.decode(rec)
	s.Equal("Split AC 1.5 Ton", resp["name"])
	s.Equal(category.ID.String(), resp["category_id"])
	s.Equal(float64(10), resp["stock"])
	s.Equal(false, resp["low_stock"])
	s.Equal(true, resp["maintainable"])
	s.Equal("active", resp["status"])
}

func (s *HandlerSuite) TestCreateProduct_ValidationFields() {
	rec := s.do(http.MethodPost, "/api/business/products", map[string]any{
		"name":  "",
		"price": -5,
		"stock": -1,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decode(rec)
	fields, ok := resp["fields"].(map[string]any)
	s.Require().True(ok, "expected per-field messages, got %v", resp)
	s.Contains(fields, "name")
	s.Contains(fields, "price")
	s.Contains(fields, "stock")
}

func (s *HandlerSuite) TestCreateProduct_UnknownCategory() {
	rec := s.do(http.MethodPost, "/api/business/products", map[string]any{
		"category_id": uuid.NewString(),
		"name":        "Split AC 1.5 Ton",
		"price":       1899.0,
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decode(rec)
	fields, ok := resp["fields"].(map[string]any)
	s.Require().True(ok)
	s.Equal("category does not exist", fields["category_id"])
}

func (s *HandlerSuite) TestCreateProduct_DuplicateSKU() {
	s.seedProduct(s.tenantID, "Split AC 1.5 Ton", "AC-1500", "", 1899, 10)

	rec := s.do(http.MethodPost, "/api/business/products", map[string]any{
		"name":  "Another AC",
		"sku":   "AC-1500",
		"price": 999.0,
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestGetProduct() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	rec := s.do(http.MethodGet, "/api/business/products/"+product.ID.String(), nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Fridge 400L", s.decode(rec)["name"])
}

func (s *HandlerSuite) TestGetProduct_InvalidID() {
	rec := s.do(http.MethodGet, "/api/business/products/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGetProduct_NotFound() {
	rec := s.do(http.MethodGet, "/api/business/products/"+uuid.NewString(), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestProductIsolation() {
	// A product of another tenant reads as missing, never as forbidden.
	foreign := s.seedProduct(id.TenantID(uuid.New()), "Foreign", "FOR-1", "", 1, 0)

	rec := s.do(http.MethodGet, "/api/business/products/"+foreign.ID.String(), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestListProducts() {
	category := s.seedCategory("Air Conditioners")
	ac, err := s.productSvc.CreateProduct(context.Background(), &service.CreateProductCommand{
		TenantID:          s.tenantID,
		CategoryID:        category.ID,
		Name:              "Split AC 1.5 Ton",
		SKU:               "AC-1500",
		Price:             1899,
		Stock:             1,
		LowStockThreshold: 3,
	})
	s.Require().NoError(err)
	s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 10)

	rec := s.do(http.MethodGet, "/api/business/products", nil)
	s.Equal(http.StatusOK, rec.Code)
	resp := s.decode(rec)
	s.Equal(float64(2), resp["total"])

	rec = s.do(http.MethodGet, "/api/business/products?category_id="+category.ID.String(), nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(1), s.decode(rec)["total"])

	rec = s.do(http.MethodGet, "/api/business/products?low_stock=true", nil)
	s.Equal(http.StatusOK, rec.Code)
	resp = s.decode(rec)
	s.Equal(float64(1), resp["total"])
	products, ok := resp["products"].([]any)
	s.Require().True(ok)
	s.Require().Len(products, 1)
	first, ok := products[0].(map[string]any)
	s.Require().True(ok)
	s.Equal(ac.ID.String(), first["id"])
	s.Equal(true, first["low_stock"])

	rec = s.do(http.MethodGet, "/api/business/products?search=fridge", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(1), s.decode(rec)["total"])
}

func (s *HandlerSuite) TestListProducts_UnknownStatus() {
	rec := s.do(http.MethodGet, "/api/business/products?status=discontinued", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestLookupProduct() {
	product := s.seedProduct(s.tenantID, "Split AC 1.5 Ton", "AC-1500", "6291041500214", 1899, 10)

	rec := s.do(http.MethodGet, "/api/pos/products/lookup?code=6291041500214", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(product.ID.String(), s.decode(rec)["id"])

	rec = s.do(http.MethodGet, "/api/pos/products/lookup?code=AC-1500", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(product.ID.String(), s.decode(rec)["id"])
}

func (s *HandlerSuite) TestLookupProduct_Miss() {
	rec := s.do(http.MethodGet, "/api/pos/products/lookup?code=0000000000000", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestLookupProduct_MissingCode() {
	rec := s.do(http.MethodGet, "/api/pos/products/lookup", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestUpdateProduct() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	rec := s.do(http.MethodPut, "/api/business/products/"+product.ID.String(), map[string]any{
		"price": 1999.0,
	})
	s.Equal(http.StatusOK, rec.Code)

	resp := s.decode(rec)
	s.Equal(1999.0, resp["price"])
	s.Equal("Fridge 400L", resp["name"])
}

func (s *HandlerSuite) TestUpdateProduct_IgnoresStockField() {
	// Stock has no place in the update request; a client sending it must
	// not move inventory.
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	rec := s.do(http.MethodPut, "/api/business/products/"+product.ID.String(), map[string]any{
		"price": 1999.0,
		"stock": 999,
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(4), s.decode(rec)["stock"])
}

func (s *HandlerSuite) TestUpdateProduct_ClearsCategory() {
	category := s.seedCategory("Fridges")
	product, err := s.productSvc.CreateProduct(context.Background(), &service.CreateProductCommand{
		TenantID:   s.tenantID,
		CategoryID: category.ID,
		Name:       "Fridge 400L",
		Price:      2199,
	})
	s.Require().NoError(err)

	rec := s.do(http.MethodPut, "/api/business/products/"+product.ID.String(), map[string]any{
		"category_id": "",
	})
	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(s.decode(rec), "category_id")
}

func (s *HandlerSuite) TestAdjustStock() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)
	path := "/api/business/products/" + product.ID.String() + "/stock-adjust"

	rec := s.do(http.MethodPost, path, map[string]any{"delta": 6, "reason": "delivery received"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(10), s.decode(rec)["stock"])

	rec = s.do(http.MethodPost, path, map[string]any{"delta": -10, "reason": "stocktake correction"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(0), s.decode(rec)["stock"])
}

func (s *HandlerSuite) TestAdjustStock_InsufficientStock() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	rec := s.do(http.MethodPost, "/api/business/products/"+product.ID.String()+"/stock-adjust",
		map[string]any{"delta": -5, "reason": "stocktake correction"})
	s.Equal(http.StatusConflict, rec.Code)

	// Nothing moved.
	rec = s.do(http.MethodGet, "/api/business/products/"+product.ID.String(), nil)
	s.Equal(float64(4), s.decode(rec)["stock"])
}

func (s *HandlerSuite) TestAdjustStock_ValidationFields() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	rec := s.do(http.MethodPost, "/api/business/products/"+product.ID.String()+"/stock-adjust",
		map[string]any{"delta": 0, "reason": ""})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decode(rec)
	fields, ok := resp["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "delta")
	s.Contains(fields, "reason")
}

func (s *HandlerSuite) TestProductStatusEndpoints() {
	product := s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)
	path := "/api/business/products/" + product.ID.String()

	rec := s.do(http.MethodPost, path+"/deactivate", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("inactive", s.decode(rec)["status"])

	rec = s.do(http.MethodPost, path+"/deactivate", nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, path+"/reactivate", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("active", s.decode(rec)["status"])
}

func (s *HandlerSuite) TestCatalogManagementRequiresPermission() {
	s.actor.Role = id.RoleCashier
	s.actor.BranchID = id.BranchID(uuid.New())

	rec := s.do(http.MethodPost, "/api/business/categories", map[string]any{"name": "Fridges"})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestReadSurfaceAllowsCashier() {
	s.seedProduct(s.tenantID, "Fridge 400L", "FR-400", "", 2199, 4)

	s.actor.Role = id.RoleCashier
	s.actor.BranchID = id.BranchID(uuid.New())

	rec := s.do(http.MethodGet, "/api/pos/products", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(1), s.decode(rec)["total"])
}

func (s *HandlerSuite) TestUnauthenticated() {
	s.actor = requestcontext.Actor{}

	rec := s.do(http.MethodGet, "/api/business/products", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

// newMockHandler wires the handler to gomock services for failure paths the
// real stack cannot produce.
func newMockHandler(t *testing.T) (http.Handler, *mocks.MockCategoryService, *mocks.MockProductService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	categories := mocks.NewMockCategoryService(ctrl)
	products := mocks.NewMockProductService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(categories, products, logger)

	actor := requestcontext.Actor{
		StaffID:  id.StaffID(uuid.New()),
		TenantID: id.TenantID(uuid.New()),
		Role:     id.RoleOwner,
	}

	r := chi.NewRouter()
	r.Route("/api/business", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(requestcontext.WithActor(req.Context(), actor)))
			})
		})
		h.RegisterBusiness(r)
	})
	return r, categories, products
}

func TestListProducts_ServiceFailure(t *testing.T) {
	router, _, products := newMockHandler(t)

	products.EXPECT().
		ListProducts(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, 0, errors.New("store offline"))

	req := httptest.NewRequest(http.MethodGet, "/api/business/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	router, _, _ := newMockHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/business/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCategory_ServiceFailure(t *testing.T) {
	router, categories, _ := newMockHandler(t)

	categories.EXPECT().
		UpdateCategory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("store offline"))

	body := bytes.NewBufferString(`{"name":"Refrigerators"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/business/categories/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotEmpty(t, rec.Body.String())
}
