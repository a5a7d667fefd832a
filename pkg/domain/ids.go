// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "fieldpos/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing ProductID where BranchID is expected.
type (
	TenantID       uuid.UUID
	BranchID       uuid.UUID
	StaffID        uuid.UUID
	CategoryID     uuid.UUID
	ProductID      uuid.UUID
	CustomerID     uuid.UUID
	SaleID         uuid.UUID
	SaleItemID     uuid.UUID
	ContractID     uuid.UUID
	ContractItemID uuid.UUID
	VisitID        uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParseBranchID(s string) (BranchID, error) {
	id, err := parseUUID(s, "branch ID")
	return BranchID(id), err
}

func ParseStaffID(s string) (StaffID, error) {
	id, err := parseUUID(s, "staff ID")
	return StaffID(id), err
}

func ParseCategoryID(s string) (CategoryID, error) {
	id, err := parseUUID(s, "category ID")
	return CategoryID(id), err
}

func ParseProductID(s string) (ProductID, error) {
	id, err := parseUUID(s, "product ID")
	return ProductID(id), err
}

func ParseCustomerID(s string) (CustomerID, error) {
	id, err := parseUUID(s, "customer ID")
	return CustomerID(id), err
}

func ParseSaleID(s string) (SaleID, error) {
	id, err := parseUUID(s, "sale ID")
	return SaleID(id), err
}

func ParseSaleItemID(s string) (SaleItemID, error) {
	id, err := parseUUID(s, "sale item ID")
	return SaleItemID(id), err
}

func ParseContractID(s string) (ContractID, error) {
	id, err := parseUUID(s, "contract ID")
	return ContractID(id), err
}

func ParseContractItemID(s string) (ContractItemID, error) {
	id, err := parseUUID(s, "contract item ID")
	return ContractItemID(id), err
}

func ParseVisitID(s string) (VisitID, error) {
	id, err := parseUUID(s, "visit ID")
	return VisitID(id), err
}

// String methods - for logging and debugging.

func (id TenantID) String() string       { return uuid.UUID(id).String() }
func (id BranchID) String() string       { return uuid.UUID(id).String() }
func (id StaffID) String() string        { return uuid.UUID(id).String() }
func (id CategoryID) String() string     { return uuid.UUID(id).String() }
func (id ProductID) String() string      { return uuid.UUID(id).String() }
func (id CustomerID) String() string     { return uuid.UUID(id).String() }
func (id SaleID) String() string         { return uuid.UUID(id).String() }
func (id SaleItemID) String() string     { return uuid.UUID(id).String() }
func (id ContractID) String() string     { return uuid.UUID(id).String() }
func (id ContractItemID) String() string { return uuid.UUID(id).String() }
func (id VisitID) String() string        { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id TenantID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CustomerID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SaleID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SaleItemID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ContractID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ContractItemID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id VisitID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
