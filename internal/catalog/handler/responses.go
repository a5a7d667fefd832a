package handler

import (
	"time"

	"fieldpos/internal/catalog/models"
)

// HTTP Response DTOs - the JSON shapes the API returns.

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryListResponse struct {
	Categories []*CategoryResponse `json:"categories"`
}

// ProductResponse includes a computed low_stock flag so the register can
// highlight products that need reordering without repeating the threshold
// comparison client side.
type ProductResponse struct {
	ID                string    `json:"id"`
	CategoryID        string    `json:"category_id,omitempty"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku,omitempty"`
	Barcode           string    `json:"barcode,omitempty"`
	Price             float64   `json:"price"`
	Cost              float64   `json:"cost"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
	Maintainable      bool      `json:"maintainable"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	Total    int                `json:"total"`
}

func toCategoryResponse(category *models.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Status:    category.Status.String(),
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func toCategoryListResponse(categories []*models.Category) *CategoryListResponse {
	items := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, toCategoryResponse(c))
	}
	return &CategoryListResponse{Categories: items}
}

func toProductResponse(product *models.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:                product.ID.String(),
		Name:              product.Name,
		SKU:               product.SKU,
		Barcode:           product.Barcode,
		Price:             product.Price,
		Cost:              product.Cost,
		Stock:             product.Stock,
		LowStockThreshold: product.LowStockThreshold,
		LowStock:          product.IsLowStock(),
		Maintainable:      product.Maintainable,
		Status:            product.Status.String(),
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
	if !product.CategoryID.IsNil() {
		resp.CategoryID = product.CategoryID.String()
	}
	return resp
}

func toProductListResponse(products []*models.Product, total int) *ProductListResponse {
	items := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return &ProductListResponse{Products: items, Total: total}
}
