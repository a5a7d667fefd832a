package handler

import (
	"time"

	"fieldpos/internal/customer/models"
)

// HTTP Response DTOs - the JSON shapes the API returns.

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerListResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Total     int                 `json:"total"`
}

func toCustomerResponse(customer *models.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func toCustomerListResponse(customers []*models.Customer, total int) *CustomerListResponse {
	items := make([]*CustomerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	return &CustomerListResponse{Customers: items, Total: total}
}
