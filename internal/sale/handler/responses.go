package handler

import (
	"time"

	"fieldpos/internal/sale/models"
)

// HTTP Response DTOs - contain JSON tags for API serialization.

type SaleItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	BranchID      string             `json:"branch_id"`
	CashierID     string             `json:"cashier_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	InvoiceNo     string             `json:"invoice_no"`
	Subtotal      float64            `json:"subtotal"`
	Discount      float64            `json:"discount"`
	Total         float64            `json:"total"`
	Paid          float64            `json:"paid"`
	Change        float64            `json:"change"`
	PaymentMethod string             `json:"payment_method"`
	Device        string             `json:"device,omitempty"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse pages sale summaries; list rows carry no items.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int            `json:"total"`
}

func toSaleItemResponse(item *models.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:          item.ID.String(),
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		LineTotal:   item.LineTotal,
	}
}

func toSaleResponse(sale *models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            sale.ID.String(),
		BranchID:      sale.BranchID.String(),
		CashierID:     sale.CashierID.String(),
		InvoiceNo:     sale.InvoiceNo,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		Paid:          sale.Paid,
		Change:        sale.Change,
		PaymentMethod: sale.PaymentMethod,
		Device:        sale.Device,
		Status:        string(sale.Status),
		VoidedAt:      sale.VoidedAt,
		CreatedAt:     sale.CreatedAt,
	}
	if sale.HasCustomer() {
		resp.CustomerID = sale.CustomerID.String()
	}
	for _, item := range sale.Items {
		resp.Items = append(resp.Items, toSaleItemResponse(item))
	}
	return resp
}

func toSaleListResponse(sales []*models.Sale, total int) SaleListResponse {
	resp := SaleListResponse{
		Sales: make([]SaleResponse, 0, len(sales)),
		Total: total,
	}
	for _, sale := range sales {
		resp.Sales = append(resp.Sales, toSaleResponse(sale))
	}
	return resp
}
