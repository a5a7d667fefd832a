package handler

import (
	"time"

	"fieldpos/internal/report/models"
)

// HTTP Response DTOs - contain JSON tags for API serialization.
// Period bounds render as YYYY-MM-DD; timestamps stay RFC 3339.

type TopProductResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type SalesSummaryResponse struct {
	From          string               `json:"from"`
	To            string               `json:"to"`
	BranchID      string               `json:"branch_id,omitempty"`
	Revenue       float64              `json:"revenue"`
	SaleCount     int                  `json:"sale_count"`
	AverageTicket float64              `json:"average_ticket"`
	TopProducts   []TopProductResponse `json:"top_products"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

type ContractCountsResponse struct {
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	Cancelled int `json:"cancelled"`
}

type MaintenanceSummaryResponse struct {
	From            string                 `json:"from"`
	To              string                 `json:"to"`
	Contracts       ContractCountsResponse `json:"contracts"`
	VisitsCompleted int                    `json:"visits_completed"`
	VisitsMissed    int                    `json:"visits_missed"`
	UpcomingVisits  int                    `json:"upcoming_visits"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

func toSalesSummaryResponse(summary *models.SalesSummary) SalesSummaryResponse {
	resp := SalesSummaryResponse{
		From:          summary.From.Format(dateFormat),
		To:            summary.To.Format(dateFormat),
		Revenue:       summary.Revenue,
		SaleCount:     summary.SaleCount,
		AverageTicket: summary.AverageTicket,
		TopProducts:   make([]TopProductResponse, 0, len(summary.TopProducts)),
		GeneratedAt:   summary.GeneratedAt,
	}
	if !summary.BranchID.IsNil() {
		resp.BranchID = summary.BranchID.String()
	}
	for _, product := range summary.TopProducts {
		resp.TopProducts = append(resp.TopProducts, TopProductResponse{
			ProductID:   product.ProductID.String(),
			ProductName: product.ProductName,
			Quantity:    product.Quantity,
			Revenue:     product.Revenue,
		})
	}
	return resp
}

func toMaintenanceSummaryResponse(summary *models.MaintenanceSummary) MaintenanceSummaryResponse {
	return MaintenanceSummaryResponse{
		From: summary.From.Format(dateFormat),
		To:   summary.To.Format(dateFormat),
		Contracts: ContractCountsResponse{
			Active:    summary.Contracts.Active,
			Expired:   summary.Contracts.Expired,
			Cancelled: summary.Contracts.Cancelled,
		},
		VisitsCompleted: summary.VisitsCompleted,
		VisitsMissed:    summary.VisitsMissed,
		UpcomingVisits:  summary.UpcomingVisits,
		GeneratedAt:     summary.GeneratedAt,
	}
}
