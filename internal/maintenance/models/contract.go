// Package models holds the maintenance domain: contracts, the equipment
// they cover, and the visits they schedule.
package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusExpired   ContractStatus = "expired"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusCancelled:
		return true
	}
	return false
}

// Contract is a recurring service agreement for a customer's equipment.
// TotalVisits always derives from frequency and date range, never from
// client input.
type Contract struct {
	ID           id.ContractID
	TenantID     id.TenantID
	BranchID     id.BranchID
	CustomerID   id.CustomerID
	SaleID       id.SaleID  // nil when the contract was not sold at the register
	TechnicianID id.StaffID // default technician; nil until chosen
	ContractNo   string
	Frequency    Frequency
	StartDate    time.Time
	EndDate      time.Time
	Status       ContractStatus
	TotalVisits  int
	RenewalCount int
	Notes        string
	CreatedBy    id.StaffID
	Items        []*ContractItem
	Visits       []*Visit
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContractItem is one piece of covered equipment, snapshotted at contract
// time so later catalog edits do not rewrite the agreement.
type ContractItem struct {
	ID          id.ContractItemID
	ContractID  id.ContractID
	ProductID   id.ProductID
	ProductName string
	SerialNo    string
	Quantity    int
	Notes       string
}

func NewContractItem(itemID id.ContractItemID, productID id.ProductID, productName, serialNo string, quantity int, notes string) (*ContractItem, error) {
	if productID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract item requires a product")
	}
	if productName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract item requires a product name")
	}
	if quantity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract item quantity must be positive")
	}
	return &ContractItem{
		ID:          itemID,
		ProductID:   productID,
		ProductName: productName,
		SerialNo:    serialNo,
		Quantity:    quantity,
		Notes:       notes,
	}, nil
}

func NewContract(contractID id.ContractID, tenantID id.TenantID, branchID id.BranchID, customerID id.CustomerID, saleID id.SaleID, technicianID id.StaffID, contractNo string, frequency Frequency, startDate, endDate time.Time, totalVisits int, notes string, createdBy id.StaffID, items []*ContractItem, now time.Time) (*Contract, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a tenant")
	}
	if branchID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a branch")
	}
	if customerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a customer")
	}
	if contractNo == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a contract number")
	}
	if !frequency.Valid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown frequency")
	}
	if endDate.Before(startDate) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract end date cannot precede its start date")
	}
	if totalVisits < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires at least one visit")
	}
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires at least one covered item")
	}
	for _, item := range items {
		item.ContractID = contractID
	}
	return &Contract{
		ID:           contractID,
		TenantID:     tenantID,
		BranchID:     branchID,
		CustomerID:   customerID,
		SaleID:       saleID,
		TechnicianID: technicianID,
		ContractNo:   contractNo,
		Frequency:    frequency,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       ContractStatusActive,
		TotalVisits:  totalVisits,
		Notes:        notes,
		CreatedBy:    createdBy,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// HasSale reports whether the contract is linked to a register sale.
func (c *Contract) HasSale() bool {
	return !c.SaleID.IsNil()
}

// Expire transitions an active contract whose period has ended.
func (c *Contract) Expire(now time.Time) error {
	if c.Status != ContractStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "only active contracts expire")
	}
	c.Status = ContractStatusExpired
	c.UpdatedAt = now
	return nil
}

// Cancel terminates an active contract early. The service cancels the
// remaining scheduled visits alongside.
func (c *Contract) Cancel(now time.Time) error {
	if c.Status != ContractStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "only active contracts can be cancelled")
	}
	c.Status = ContractStatusCancelled
	c.UpdatedAt = now
	return nil
}

// Renew moves the contract onto a new period. Active and expired contracts
// renew; cancelled ones stay cancelled. The new period must start after the
// old one ended and TotalVisits is recomputed by the caller.
func (c *Contract) Renew(startDate, endDate time.Time, totalVisits int, now time.Time) error {
	if c.Status == ContractStatusCancelled {
		return dErrors.New(dErrors.CodeInvariantViolation, "cancelled contracts cannot be renewed")
	}
	if !startDate.After(c.EndDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "renewal must start after the current period ends")
	}
	if endDate.Before(startDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract end date cannot precede its start date")
	}
	if totalVisits < 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract requires at least one visit")
	}
	c.StartDate = startDate
	c.EndDate = endDate
	c.TotalVisits = totalVisits
	c.Status = ContractStatusActive
	c.RenewalCount++
	c.UpdatedAt = now
	return nil
}

// ContractFilter narrows and pages contract listings.
type ContractFilter struct {
	Status         ContractStatus
	CustomerID     id.CustomerID
	BranchID       id.BranchID
	ExpiringBefore time.Time // active contracts ending before this date
	Limit          int
	Offset         int
}
