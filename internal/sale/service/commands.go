package service

import (
	"fieldpos/internal/sale/models"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// maxSaleItems bounds one sale to what a register realistically rings up;
// the HTTP layer enforces the same cap before decoding item arrays.
const maxSaleItems = 100

// SaleLine is one requested line of a sale, before pricing. Quantity is the
// number of units of one product.
type SaleLine struct {
	ProductID id.ProductID
	Quantity  int
}

// CreateSaleCommand contains validated input for ringing up a sale. The
// cashier and branch come from the authenticated actor, never the payload.
type CreateSaleCommand struct {
	TenantID      id.TenantID
	BranchID      id.BranchID
	CashierID     id.StaffID
	CustomerID    id.CustomerID // optional; nil means walk-in
	Items         []SaleLine
	Discount      float64
	Paid          float64
	PaymentMethod string
}

func (c *CreateSaleCommand) Validate() error {
	if c.TenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if c.BranchID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "branch_id is required")
	}
	if c.CashierID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "cashier is required")
	}
	if len(c.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	if len(c.Items) > maxSaleItems {
		return dErrors.New(dErrors.CodeValidation, "too many items in one sale")
	}
	for _, line := range c.Items {
		if line.ProductID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "every item needs a product_id")
		}
		if line.Quantity <= 0 {
			return dErrors.New(dErrors.CodeValidation, "every item needs a positive quantity")
		}
	}
	if c.Discount < 0 {
		return dErrors.New(dErrors.CodeValidation, "discount cannot be negative")
	}
	if c.Paid < 0 {
		return dErrors.New(dErrors.CodeValidation, "paid amount cannot be negative")
	}
	if !models.ValidPaymentMethod(c.PaymentMethod) {
		return dErrors.New(dErrors.CodeValidation, "unknown payment method")
	}
	return nil
}

// mergedLines collapses repeated scans of the same product into one line.
// Registers send a line per scan; accounting wants a line per product.
func (c *CreateSaleCommand) mergedLines() []SaleLine {
	merged := make([]SaleLine, 0, len(c.Items))
	index := make(map[id.ProductID]int, len(c.Items))
	for _, line := range c.Items {
		if at, seen := index[line.ProductID]; seen {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}
