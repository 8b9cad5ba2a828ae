package contracts

import "time"

// CohortCell is one bucket of the cohort retention matrix: the number of
// distinct customers from a first-purchase-month cohort that placed an
// order in a given tenure month. Cells with zero active customers are
// never materialized.
type CohortCell struct {
	CohortMonth     time.Time `json:"-"`
	TenureIndex     int       `json:"tenure_index"` // 1-based; 1 = the cohort month itself
	ActiveCustomers int       `json:"active_customers"`

	// Cohort is the "YYYY-MM" label of CohortMonth, kept alongside the
	// time value so JSON output stays human-readable.
	Cohort string `json:"cohort_month"`
}

// RetentionRate returns active customers as a fraction of the cohort's
// initial size. initial <= 0 yields 0 instead of dividing by zero.
func (c *CohortCell) RetentionRate(initial int) float64 {
	if initial <= 0 {
		return 0.0
	}
	return float64(c.ActiveCustomers) / float64(initial)
}
