// Package analytics implements the customer analytics pipeline: RFM
// segmentation, the cohort retention matrix and the dashboard aggregates.
// Every operation is a pure function of the order table it receives; the
// caller applies filters first, and cohort assignment is scoped to the
// table as handed in, not to any unfiltered history.
package analytics

import (
	"math"

	"github.com/jaylee/storepulse/internal/contracts"
)

// ValidateOrders checks every row against the input schema before any
// computation runs. It returns the first violation as
// *contracts.InvalidInputError; on error no partial result exists because
// nothing has been computed yet.
func ValidateOrders(orders []contracts.OrderRecord) error {
	for i, o := range orders {
		if o.OrderID == "" {
			return &contracts.InvalidInputError{Row: i, Field: "order_id", Reason: "missing value"}
		}
		if o.CustomerID == "" {
			return &contracts.InvalidInputError{Row: i, Field: "customer_id", Reason: "missing value"}
		}
		if o.OrderDate.IsZero() {
			return &contracts.InvalidInputError{Row: i, Field: "order_date", Reason: "missing or unparseable date"}
		}
		if math.IsNaN(o.Revenue) || math.IsInf(o.Revenue, 0) {
			return &contracts.InvalidInputError{Row: i, Field: "revenue", Reason: "non-finite value"}
		}
		if o.Revenue < 0 {
			return &contracts.InvalidInputError{Row: i, Field: "revenue", Reason: "negative value"}
		}
	}
	return nil
}
