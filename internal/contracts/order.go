package contracts

import "time"

// OrderRecord represents a single order row from the synthetic e-commerce
// dataset. The analytics pipeline only reads OrderID, OrderDate, CustomerID
// and Revenue; the descriptive fields exist for filtering and breakdowns.
type OrderRecord struct {
	OrderID    string    `json:"order_id"`
	OrderDate  time.Time `json:"order_date"`
	CustomerID string    `json:"customer_id"`
	Revenue    float64   `json:"revenue"`
	Category   string    `json:"category"`
	Region     string    `json:"region"`
	Channel    string    `json:"channel"`
}

// Month returns the first day of the order's calendar month in UTC.
func (o *OrderRecord) Month() time.Time {
	return MonthOf(o.OrderDate)
}

// MonthOf truncates a date to the first day of its calendar month in UTC.
func MonthOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthDiff returns the number of whole calendar months from a to b.
// Both arguments are normalized to month precision first, so day-of-month
// never influences the result.
func MonthDiff(a, b time.Time) int {
	am, bm := MonthOf(a), MonthOf(b)
	return (bm.Year()-am.Year())*12 + int(bm.Month()) - int(am.Month())
}

// MonthLabel formats a month as "YYYY-MM" for JSON output and reports.
func MonthLabel(t time.Time) string {
	return t.UTC().Format("2006-01")
}
