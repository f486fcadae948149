package domain

import "github.com/shopspring/decimal"

// PropertyStats summarizes the catalog.
type PropertyStats struct {
	Total          int             `json:"total_properties"`
	ActiveListings int             `json:"active_listings"`
	AvgPrice       decimal.Decimal `json:"avg_price"`
	MinPrice       decimal.Decimal `json:"min_price"`
	MaxPrice       decimal.Decimal `json:"max_price"`
}

// TransactionStats summarizes the ledger.
type TransactionStats struct {
	Total        int             `json:"total_transactions"`
	RecentCount  int             `json:"recent_transactions"`
	AvgValue     decimal.Decimal `json:"avg_transaction_value"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// MonthlyPoint is one bucket of a monthly trend; Month is formatted YYYY-MM.
type MonthlyPoint struct {
	Month string          `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DealAmount is the total of one transaction with the fee of its service.
type DealAmount struct {
	Total decimal.Decimal
	Fee   decimal.Decimal
}

// ServicePerformance ranks a service by the deals closed on its properties.
type ServicePerformance struct {
	ServiceID  string          `json:"service_id"`
	Title      string          `json:"title"`
	Deals      int             `json:"total_transactions"`
	Revenue    decimal.Decimal `json:"total_revenue"`
	FeeRevenue decimal.Decimal `json:"fee_revenue"`
}

// EmployeePerformance ranks an agent by the deals closed in a window.
type EmployeePerformance struct {
	EmployeeID string          `json:"employee_id"`
	Username   string          `json:"username"`
	Deals      int             `json:"total_sales"`
	Revenue    decimal.Decimal `json:"total_revenue"`
	FeeRevenue decimal.Decimal `json:"fee_revenue"`
	AvgDeal    decimal.Decimal `json:"avg_deal_size"`
}
