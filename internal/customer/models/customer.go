// Package models defines the customer entity.
package models

import (
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
)

// Customer is a person or company the tenant sells to and maintains
// equipment for. Customers have no status and are never deleted: sales and
// contracts keep referencing them for as long as the tenant exists.
type Customer struct {
	ID       id.CustomerID
	TenantID id.TenantID
	Name     string
	Phone    string
	Email    string
	Address  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactDetails is the mutable part of a customer. NewCustomer and
// UpdateContact validate the same struct, so creation and update cannot
// drift apart.
type ContactDetails struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (d ContactDetails) check() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "customer name cannot be empty")
	}
	if len(d.Name) > 255 {
		return dErrors.New(dErrors.CodeInvariantViolation, "customer name must be 255 characters or less")
	}
	return nil
}

func NewCustomer(customerID id.CustomerID, tenantID id.TenantID, details ContactDetails, now time.Time) (*Customer, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "customer requires a tenant")
	}
	if err := details.check(); err != nil {
		return nil, err
	}
	return &Customer{
		ID:        customerID,
		TenantID:  tenantID,
		Name:      details.Name,
		Phone:     details.Phone,
		Email:     details.Email,
		Address:   details.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateContact replaces the contact details.
func (c *Customer) UpdateContact(details ContactDetails, now time.Time) error {
	if err := details.check(); err != nil {
		return err
	}
	c.Name = details.Name
	c.Phone = details.Phone
	c.Email = details.Email
	c.Address = details.Address
	c.UpdatedAt = now
	return nil
}

// CustomerFilter narrows and pages customer listings. Zero values match all.
type CustomerFilter struct {
	// Search matches a case-insensitive substring of the name or phone.
	Search string
	Limit  int
	Offset int
}
