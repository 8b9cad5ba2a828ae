package analytics

import (
	"fmt"
	"sort"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

// Breakdown dimensions accepted by SummaryCalculator.Breakdown.
const (
	DimensionCategory = "category"
	DimensionRegion   = "region"
)

// SummaryCalculator computes the dashboard aggregates: headline KPIs, the
// monthly revenue series and per-dimension breakdowns.
type SummaryCalculator struct {
	logger *logger.Logger
}

// NewSummaryCalculator creates a new summary calculator.
func NewSummaryCalculator(log *logger.Logger) *SummaryCalculator {
	return &SummaryCalculator{logger: log}
}

// Compute returns the headline KPI figures for the table.
func (c *SummaryCalculator) Compute(orders []contracts.OrderRecord) (*contracts.Summary, error) {
	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}

	s := &contracts.Summary{}
	customers := make(map[string]bool)
	orderIDs := make(map[string]bool)
	for _, o := range orders {
		s.TotalRevenue += o.Revenue
		customers[o.CustomerID] = true
		orderIDs[o.OrderID] = true
	}
	s.TotalOrders = len(orderIDs)
	s.DistinctCustomers = len(customers)
	if s.TotalOrders > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(s.TotalOrders)
	}

	return s, nil
}

// MonthlyRevenue returns revenue and order counts per calendar month,
// months ascending. Months without orders are omitted.
func (c *SummaryCalculator) MonthlyRevenue(orders []contracts.OrderRecord) ([]contracts.MonthlyRevenue, error) {
	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}

	type monthAgg struct {
		revenue  float64
		orderIDs map[string]bool
	}
	byMonth := make(map[string]*monthAgg)
	for _, o := range orders {
		label := contracts.MonthLabel(o.Month())
		agg, ok := byMonth[label]
		if !ok {
			agg = &monthAgg{orderIDs: make(map[string]bool)}
			byMonth[label] = agg
		}
		agg.revenue += o.Revenue
		agg.orderIDs[o.OrderID] = true
	}

	series := make([]contracts.MonthlyRevenue, 0, len(byMonth))
	for label, agg := range byMonth {
		series = append(series, contracts.MonthlyRevenue{
			Month:      label,
			Revenue:    agg.revenue,
			OrderCount: len(agg.orderIDs),
		})
	}

	// "YYYY-MM" sorts chronologically as a string.
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})

	return series, nil
}

// Breakdown aggregates revenue along one descriptive dimension. Rows are
// ordered by revenue descending, ties by name ascending.
func (c *SummaryCalculator) Breakdown(orders []contracts.OrderRecord, dimension string) ([]contracts.BreakdownRow, error) {
	var key func(o *contracts.OrderRecord) string
	switch dimension {
	case DimensionCategory:
		key = func(o *contracts.OrderRecord) string { return o.Category }
	case DimensionRegion:
		key = func(o *contracts.OrderRecord) string { return o.Region }
	default:
		return nil, fmt.Errorf("unknown breakdown dimension %q", dimension)
	}

	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}

	type dimAgg struct {
		revenue  float64
		orderIDs map[string]bool
	}
	byDim := make(map[string]*dimAgg)
	total := 0.0
	for i := range orders {
		o := &orders[i]
		name := key(o)
		agg, ok := byDim[name]
		if !ok {
			agg = &dimAgg{orderIDs: make(map[string]bool)}
			byDim[name] = agg
		}
		agg.revenue += o.Revenue
		agg.orderIDs[o.OrderID] = true
		total += o.Revenue
	}

	rows := make([]contracts.BreakdownRow, 0, len(byDim))
	for name, agg := range byDim {
		row := contracts.BreakdownRow{
			Name:       name,
			Revenue:    agg.revenue,
			OrderCount: len(agg.orderIDs),
		}
		if total > 0 {
			row.RevenueShare = agg.revenue / total
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Name < rows[j].Name
	})

	return rows, nil
}
