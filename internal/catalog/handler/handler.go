package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/catalog/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// CategoryService defines the category operations the API surfaces need.
// Every method is scoped to the caller's tenant.
type CategoryService interface {
	CreateCategory(ctx context.Context, cmd *service.CreateCategoryCommand) (*models.Category, error)
	GetCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error)
	ListCategories(ctx context.Context, tenantID id.TenantID) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID, cmd *service.UpdateCategoryCommand) (*models.Category, error)
	DeactivateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error)
	ReactivateCategory(ctx context.Context, tenantID id.TenantID, categoryID id.CategoryID) (*models.Category, error)
}

// ProductService defines the product operations the API surfaces need.
type ProductService interface {
	CreateProduct(ctx context.Context, cmd *service.CreateProductCommand) (*models.Product, error)
	GetProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error)
	LookupProduct(ctx context.Context, tenantID id.TenantID, code string) (*models.Product, error)
	ListProducts(ctx context.Context, tenantID id.TenantID, filter models.ProductFilter) ([]*models.Product, int, error)
	UpdateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID, cmd *service.UpdateProductCommand) (*models.Product, error)
	AdjustStock(ctx context.Context, tenantID id.TenantID, productID id.ProductID, cmd *service.AdjustStockCommand) (*models.Product, error)
	DeactivateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error)
	ReactivateProduct(ctx context.Context, tenantID id.TenantID, productID id.ProductID) (*models.Product, error)
}

type Handler struct {
	categories CategoryService
	products   ProductService
	logger     *slog.Logger
}

func New(categories CategoryService, products ProductService, logger *slog.Logger) *Handler {
	return &Handler{categories: categories, products: products, logger: logger}
}

// RegisterBusiness mounts catalog management routes. The router group is
// expected to enforce the owner role; the tenant always comes from the
// authenticated actor.
func (h *Handler) RegisterBusiness(r chi.Router) {
	r.Post("/categories", h.HandleCreateCategory)
	r.Get("/categories", h.HandleListCategories)
	r.Get("/categories/{id}", h.HandleGetCategory)
	r.Put("/categories/{id}", h.HandleUpdateCategory)
	r.Post("/categories/{id}/deactivate", h.HandleDeactivateCategory)
	r.Post("/categories/{id}/reactivate", h.HandleReactivateCategory)

	r.Post("/products", h.HandleCreateProduct)
	r.Get("/products", h.HandleListProducts)
	r.Get("/products/lookup", h.HandleLookupProduct)
	r.Get("/products/{id}", h.HandleGetProduct)
	r.Put("/products/{id}", h.HandleUpdateProduct)
	r.Post("/products/{id}/deactivate", h.HandleDeactivateProduct)
	r.Post("/products/{id}/reactivate", h.HandleReactivateProduct)
	r.Post("/products/{id}/stock-adjust", h.HandleAdjustStock)
}

// RegisterRead mounts the read-only catalog routes used by the register and
// the maintenance desk.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/categories", h.HandleListCategories)
	r.Get("/products", h.HandleListProducts)
	r.Get("/products/lookup", h.HandleLookupProduct)
	r.Get("/products/{id}", h.HandleGetProduct)
}

// HandleCreateCategory adds a category to the caller's tenant.
func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateCategoryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	category, err := h.categories.CreateCategory(ctx, req.ToCommand(actor.TenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "create category failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// HandleListCategories returns every category of the caller's tenant.
// Tenants keep a handful of categories, so there is no paging here.
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	categories, err := h.categories.ListCategories(ctx, actor.TenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list categories failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCategoryListResponse(categories))
}

// HandleGetCategory returns one category of the caller's tenant. An ID
// belonging to another tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
		return
	}

	category, err := h.categories.GetCategory(ctx, actor.TenantID, categoryID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get category failed", "error", err, "request_id", requestID, "category_id", categoryID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCategoryResponse(category))
}

// HandleUpdateCategory renames a category.
func (h *Handler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateCategoryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	category, err := h.categories.UpdateCategory(ctx, actor.TenantID, categoryID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update category failed", "error", err, "request_id", requestID, "category_id", categoryID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCategoryResponse(category))
}

// HandleDeactivateCategory hides a category from the register. Products
// keep their category assignment.
func (h *Handler) HandleDeactivateCategory(w http.ResponseWriter, r *http.Request) {
	h.setCategoryStatus(w, r, "deactivate category failed", h.categories.DeactivateCategory)
}

// HandleReactivateCategory makes a hidden category visible again.
func (h *Handler) HandleReactivateCategory(w http.ResponseWriter, r *http.Request) {
	h.setCategoryStatus(w, r, "reactivate category failed", h.categories.ReactivateCategory)
}

func (h *Handler) setCategoryStatus(w http.ResponseWriter, r *http.Request, logMsg string, change func(context.Context, id.TenantID, id.CategoryID) (*models.Category, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
		return
	}

	category, err := change(ctx, actor.TenantID, categoryID)
	if err != nil {
		h.logger.ErrorContext(ctx, logMsg, "error", err, "request_id", requestID, "category_id", categoryID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCategoryResponse(category))
}

// HandleCreateProduct adds a product to the caller's tenant.
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateProductRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	product, err := h.products.CreateProduct(ctx, req.ToCommand(actor.TenantID))
	if err != nil {
		h.logger.ErrorContext(ctx, "create product failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

// HandleListProducts pages through the caller's products, optionally
// filtered by category, status, a low-stock flag, a maintainable flag, and
// a name or SKU search term.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.ProductFilter{
		Status: models.ProductStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if categoryStr := q.Get("category_id"); categoryStr != "" {
		categoryID, err := id.ParseCategoryID(categoryStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
			return
		}
		filter.CategoryID = categoryID
	}
	if lowStockStr := q.Get("low_stock"); lowStockStr != "" {
		lowStock, err := strconv.ParseBool(lowStockStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid low_stock flag"))
			return
		}
		filter.LowStock = lowStock
	}
	if maintainableStr := q.Get("maintainable"); maintainableStr != "" {
		maintainable, err := strconv.ParseBool(maintainableStr)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid maintainable flag"))
			return
		}
		filter.Maintainable = maintainable
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	products, total, err := h.products.ListProducts(ctx, actor.TenantID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list products failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductListResponse(products, total))
}

// HandleLookupProduct resolves a scanned barcode or typed SKU to a product.
func (h *Handler) HandleLookupProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))

	product, err := h.products.LookupProduct(ctx, actor.TenantID, code)
	if err != nil {
		// Unknown codes are routine at the register, so this is not an
		// error log.
		h.logger.WarnContext(ctx, "product lookup failed", "error", err, "request_id", requestID, "tenant_id", actor.TenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// HandleGetProduct returns one product of the caller's tenant. An ID
// belonging to another tenant is indistinguishable from a missing one.
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	product, err := h.products.GetProduct(ctx, actor.TenantID, productID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get product failed", "error", err, "request_id", requestID, "product_id", productID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// HandleUpdateProduct applies a partial update to product details. Stock
// cannot change here; it moves through HandleAdjustStock and sales.
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProductRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	product, err := h.products.UpdateProduct(ctx, actor.TenantID, productID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update product failed", "error", err, "request_id", requestID, "product_id", productID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// HandleAdjustStock moves stock by a signed delta. Receiving is positive,
// shrinkage is negative; going below zero is refused.
func (h *Handler) HandleAdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AdjustStockRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	product, err := h.products.AdjustStock(ctx, actor.TenantID, productID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "adjust stock failed", "error", err, "request_id", requestID, "product_id", productID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// HandleDeactivateProduct hides a product from the register and from new
// maintenance contracts. Past sales keep their snapshots.
func (h *Handler) HandleDeactivateProduct(w http.ResponseWriter, r *http.Request) {
	h.setProductStatus(w, r, "deactivate product failed", h.products.DeactivateProduct)
}

// HandleReactivateProduct puts a product back on sale.
func (h *Handler) HandleReactivateProduct(w http.ResponseWriter, r *http.Request) {
	h.setProductStatus(w, r, "reactivate product failed", h.products.ReactivateProduct)
}

func (h *Handler) setProductStatus(w http.ResponseWriter, r *http.Request, logMsg string, change func(context.Context, id.TenantID, id.ProductID) (*models.Product, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor, err := httputil.RequireActor(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	product, err := change(ctx, actor.TenantID, productID)
	if err != nil {
		h.logger.ErrorContext(ctx, logMsg, "error", err, "request_id", requestID, "product_id", productID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductResponse(product))
}
