package validation

import (
	"fmt"

	dErrors "fieldpos/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxSaleItems is the maximum number of line items per sale.
	MaxSaleItems = 100

	// MaxContractItems is the maximum number of covered items per contract.
	MaxContractItems = 50

	// MaxStatusFilters is the maximum number of statuses in a list filter.
	MaxStatusFilters = 10
)

// String element length limits
const (
	// MaxNameLength is the maximum length of a display name (tenant, branch,
	// staff, product, category, customer).
	MaxNameLength = 255

	// MaxEmailLength is the maximum length of an email address.
	MaxEmailLength = 255

	// MaxPhoneLength is the maximum length of a phone number.
	MaxPhoneLength = 32

	// MaxAddressLength is the maximum length of a street address.
	MaxAddressLength = 500

	// MaxSKULength is the maximum length of a product SKU or barcode.
	MaxSKULength = 64

	// MaxSerialNoLength is the maximum length of a contract item serial number.
	MaxSerialNoLength = 100

	// MaxNotesLength is the maximum length of free-form notes and visit reports.
	MaxNotesLength = 2000
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
