// Package models defines sale domain entities.
package models

import (
	"math"
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusVoided    SaleStatus = "voided"
)

func (s SaleStatus) Valid() bool {
	return s == SaleStatusCompleted || s == SaleStatusVoided
}

// Payment methods accepted at the register.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale is a register transaction. Items snapshot product name and price at
// sale time, so later catalog edits never rewrite history. Amounts are
// rounded to cents when the sale is built; every derived figure (total,
// change) comes out of that rounded arithmetic.
type Sale struct {
	ID            id.SaleID
	TenantID      id.TenantID
	BranchID      id.BranchID
	CashierID     id.StaffID
	CustomerID    id.CustomerID // nil for walk-in sales
	InvoiceNo     string
	Subtotal      float64
	Discount      float64
	Total         float64
	Paid          float64
	Change        float64
	PaymentMethod string
	Device        string
	Status        SaleStatus
	Items         []*SaleItem
	VoidedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem is one line of a sale, priced from the catalog at the moment of
// sale.
type SaleItem struct {
	ID          id.SaleItemID
	SaleID      id.SaleID
	ProductID   id.ProductID
	ProductName string
	UnitPrice   float64
	Quantity    int
	LineTotal   float64
}

// NewSaleItem snapshots one product line. The line total is the rounded
// price times quantity.
func NewSaleItem(itemID id.SaleItemID, saleID id.SaleID, productID id.ProductID, productName string, unitPrice float64, quantity int) (*SaleItem, error) {
	if productID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale item requires a product")
	}
	if productName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale item requires a product name")
	}
	if unitPrice < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unit price cannot be negative")
	}
	if quantity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "quantity must be positive")
	}
	return &SaleItem{
		ID:          itemID,
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   RoundCents(unitPrice * float64(quantity)),
	}, nil
}

// NewSale totals the items and validates the payment against them:
// total = subtotal - discount, change = paid - total, paid covers the
// total. The caller supplies items built with NewSaleItem.
func NewSale(saleID id.SaleID, tenantID id.TenantID, branchID id.BranchID, cashierID id.StaffID, customerID id.CustomerID, invoiceNo string, items []*SaleItem, discount, paid float64, paymentMethod, device string, now time.Time) (*Sale, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale requires a tenant")
	}
	if branchID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale requires a branch")
	}
	if cashierID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale requires a cashier")
	}
	if invoiceNo == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale requires an invoice number")
	}
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sale requires at least one item")
	}
	if !ValidPaymentMethod(paymentMethod) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown payment method")
	}

	var subtotal float64
	for _, item := range items {
		item.SaleID = saleID
		subtotal += item.LineTotal
	}
	subtotal = RoundCents(subtotal)

	discount = RoundCents(discount)
	if discount < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "discount cannot be negative")
	}
	if discount > subtotal {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "discount cannot exceed the subtotal")
	}

	total := RoundCents(subtotal - discount)
	paid = RoundCents(paid)
	if paid < total {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "paid amount does not cover the total")
	}

	return &Sale{
		ID:            saleID,
		TenantID:      tenantID,
		BranchID:      branchID,
		CashierID:     cashierID,
		CustomerID:    customerID,
		InvoiceNo:     invoiceNo,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		Paid:          paid,
		Change:        RoundCents(paid - total),
		PaymentMethod: paymentMethod,
		Device:        device,
		Status:        SaleStatusCompleted,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// Void reverses a completed sale. The service restores stock in the same
// transaction that persists this transition.
func (s *Sale) Void(now time.Time) error {
	if s.Status != SaleStatusCompleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "only completed sales can be voided")
	}
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.UpdatedAt = now
	return nil
}

// HasCustomer reports whether the sale was rung up against a registered
// customer rather than a walk-in.
func (s *Sale) HasCustomer() bool {
	return !s.CustomerID.IsNil()
}

// RoundCents keeps register math stable in DOUBLE PRECISION: every stored
// amount is an exact multiple of 0.01.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SaleFilter narrows and pages sale listings.
type SaleFilter struct {
	// BranchID filters to one branch; nil matches all.
	BranchID id.BranchID
	// CashierID filters to sales rung up by one staff member; nil matches all.
	CashierID id.StaffID
	// CustomerID filters to one customer's sales; nil matches all.
	CustomerID id.CustomerID
	// Status filters to one lifecycle state; empty matches all.
	Status SaleStatus
	// From and To bound CreatedAt inclusively; zero values are open ends.
	From time.Time
	To   time.Time

	Limit  int
	Offset int
}
