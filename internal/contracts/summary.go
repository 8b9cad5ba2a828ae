package contracts

// Summary holds the headline KPI figures for a filtered order table.
type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	DistinctCustomers int     `json:"distinct_customers"`
	AvgOrderValue     float64 `json:"avg_order_value"`
}

// MonthlyRevenue is one point of the revenue time series.
type MonthlyRevenue struct {
	Month      string  `json:"month"` // "YYYY-MM"
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

// BreakdownRow aggregates revenue along one descriptive dimension value
// (a category or a region).
type BreakdownRow struct {
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	OrderCount   int     `json:"order_count"`
	RevenueShare float64 `json:"revenue_share"` // fraction of total revenue, 0.0 ~ 1.0
}
