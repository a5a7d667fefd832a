package handler

import (
	"fmt"
	"strings"

	"fieldpos/internal/sale/models"
	"fieldpos/internal/sale/service"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/validation"
	"fieldpos/pkg/requestcontext"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateSaleRequest rings up a sale. The cashier's own branch is used when
// branch_id is absent; customer_id is optional (walk-in when empty).
type CreateSaleRequest struct {
	BranchID      string            `json:"branch_id"`
	CustomerID    string            `json:"customer_id"`
	Items         []SaleItemRequest `json:"items"`
	Discount      float64           `json:"discount"`
	Paid          float64           `json:"paid"`
	PaymentMethod string            `json:"payment_method"`
}

func (r *CreateSaleRequest) Normalize() {
	if r == nil {
		return
	}
	r.BranchID = strings.TrimSpace(r.BranchID)
	r.CustomerID = strings.TrimSpace(r.CustomerID)
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	if r.PaymentMethod == "" {
		r.PaymentMethod = models.PaymentCash
	}
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
	}
}

func (r *CreateSaleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	fields := map[string]string{}
	if len(r.Items) == 0 {
		fields["items"] = "at least one item is required"
	} else if len(r.Items) > validation.MaxSaleItems {
		fields["items"] = "too many items in one sale"
	}
	for i, item := range r.Items {
		if item.ProductID == "" {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product_id is required"
		} else if _, err := id.ParseProductID(item.ProductID); err != nil {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "invalid product id"
		}
		if item.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be positive"
		}
	}
	if r.BranchID != "" {
		if _, err := id.ParseBranchID(r.BranchID); err != nil {
			fields["branch_id"] = "invalid branch id"
		}
	}
	if r.CustomerID != "" {
		if _, err := id.ParseCustomerID(r.CustomerID); err != nil {
			fields["customer_id"] = "invalid customer id"
		}
	}
	if r.Discount < 0 {
		fields["discount"] = "discount cannot be negative"
	}
	if r.Paid < 0 {
		fields["paid"] = "paid amount cannot be negative"
	}
	if !models.ValidPaymentMethod(r.PaymentMethod) {
		fields["payment_method"] = "unknown payment method"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("validation failed", fields)
	}
	return nil
}

// ToCommand binds the sale to the authenticated actor. Cashiers always sell
// at their own branch; other roles name the branch they are ringing for.
func (r *CreateSaleRequest) ToCommand(actor requestcontext.Actor) *service.CreateSaleCommand {
	branchID := actor.BranchID
	if actor.Role != id.RoleCashier && r.BranchID != "" {
		branchID, _ = id.ParseBranchID(r.BranchID)
	}

	var customerID id.CustomerID
	if r.CustomerID != "" {
		customerID, _ = id.ParseCustomerID(r.CustomerID)
	}

	items := make([]service.SaleLine, 0, len(r.Items))
	for _, item := range r.Items {
		productID, _ := id.ParseProductID(item.ProductID)
		items = append(items, service.SaleLine{ProductID: productID, Quantity: item.Quantity})
	}

	return &service.CreateSaleCommand{
		TenantID:      actor.TenantID,
		BranchID:      branchID,
		CashierID:     actor.StaffID,
		CustomerID:    customerID,
		Items:         items,
		Discount:      r.Discount,
		Paid:          r.Paid,
		PaymentMethod: r.PaymentMethod,
	}
}
