package models

import id "fieldpos/pkg/domain"

// Domain events capture what happened at the register. The service layer
// publishes them on the event stream after the transaction commits.

// SaleCompleted is emitted when the register finalizes a sale.
type SaleCompleted struct {
	SaleID     id.SaleID     `json:"sale_id"`
	TenantID   id.TenantID   `json:"tenant_id"`
	BranchID   id.BranchID   `json:"branch_id"`
	InvoiceNo  string        `json:"invoice_no"`
	Total      float64       `json:"total"`
	ItemCount  int           `json:"item_count"`
	CashierID  id.StaffID    `json:"cashier_id"`
	CustomerID id.CustomerID `json:"customer_id,omitempty"`
}

// SaleVoided is emitted when a completed sale is reversed and its stock
// returned.
type SaleVoided struct {
	SaleID   id.SaleID   `json:"sale_id"`
	TenantID id.TenantID `json:"tenant_id"`
	BranchID id.BranchID `json:"branch_id"`
	Total    float64     `json:"total"`
}
