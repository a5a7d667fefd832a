// Package models defines the read-only aggregates the reporting
// endpoints serve. Reports never mutate state; every type here is a
// projection over the sales and maintenance stores.
package models

import (
	"time"

	id "fieldpos/pkg/domain"
)

// Period is an inclusive calendar date range. Bounds carry no time of
// day; sources that compare against timestamps must treat To as covering
// the whole day.
type Period struct {
	From time.Time
	To   time.Time
}

// NextDay returns the first instant past the period, for half-open
// timestamp comparisons.
func (p Period) NextDay() time.Time {
	return p.To.AddDate(0, 0, 1)
}

// Days returns the number of calendar days the period covers.
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// SalesQuery scopes a sales report. A zero BranchID reports across the
// whole business.
type SalesQuery struct {
	Period
	BranchID id.BranchID
}

// SalesTotals aggregates completed sales inside a period. Voided sales
// never count.
type SalesTotals struct {
	Revenue   float64
	SaleCount int
}

// TopProduct is one line of the best-sellers table, ranked by units sold.
type TopProduct struct {
	ProductID   id.ProductID
	ProductName string
	Quantity    int
	Revenue     float64
}

// SalesSummary is the owner's sales dashboard for one period.
type SalesSummary struct {
	Period
	BranchID      id.BranchID
	Revenue       float64
	SaleCount     int
	AverageTicket float64
	TopProducts   []TopProduct
	GeneratedAt   time.Time
}

// ContractCounts breaks the tenant's maintenance contracts down by
// lifecycle status. The counts are not period-scoped; they describe the
// book of contracts as it stands.
type ContractCounts struct {
	Active    int
	Expired   int
	Cancelled int
}

// VisitOutcomes counts terminal visit states whose scheduled date falls
// inside a period.
type VisitOutcomes struct {
	Completed int
	Missed    int
}

// MaintenanceSummary is the owner's maintenance dashboard for one period.
// UpcomingVisits counts visits still scheduled from the report day on,
// regardless of the period.
type MaintenanceSummary struct {
	Period
	Contracts       ContractCounts
	VisitsCompleted int
	VisitsMissed    int
	UpcomingVisits  int
	GeneratedAt     time.Time
}

// SaleRow is one exported line of the sales workbook. Names are resolved
// up front so the sheet reads without ID lookups; CustomerName is empty
// for walk-in sales.
type SaleRow struct {
	InvoiceNo     string
	CreatedAt     time.Time
	BranchName    string
	CashierName   string
	CustomerName  string
	PaymentMethod string
	Status        string
	Subtotal      float64
	Discount      float64
	Total         float64
}
