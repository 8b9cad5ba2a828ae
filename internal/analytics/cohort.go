package analytics

import (
	"sort"
	"time"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

// CohortBuilder computes the cohort retention matrix: customers grouped by
// first-purchase month, counted per tenure month.
type CohortBuilder struct {
	logger *logger.Logger
}

// NewCohortBuilder creates a new cohort builder.
func NewCohortBuilder(log *logger.Logger) *CohortBuilder {
	return &CohortBuilder{logger: log}
}

// Compute builds the sparse retention matrix for the given order table.
//
// A customer's cohort month is the month of their earliest order in THIS
// table; when the caller has filtered the table, cohorts are filter-scoped
// (see the package comment). tenure_index is 1-based, so an order inside
// the cohort month lands at index 1. Cells with zero active customers are
// omitted. Output is ordered by (cohort_month, tenure_index) ascending.
func (b *CohortBuilder) Compute(orders []contracts.OrderRecord) ([]contracts.CohortCell, error) {
	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []contracts.CohortCell{}, nil
	}

	// First pass: cohort month per customer.
	cohortOf := make(map[string]time.Time)
	for _, o := range orders {
		m := o.Month()
		if first, ok := cohortOf[o.CustomerID]; !ok || m.Before(first) {
			cohortOf[o.CustomerID] = m
		}
	}

	// Second pass: distinct customers per (cohort month, tenure index).
	type cellKey struct {
		cohort time.Time
		tenure int
	}
	active := make(map[cellKey]map[string]bool)
	for _, o := range orders {
		cohort := cohortOf[o.CustomerID]
		key := cellKey{
			cohort: cohort,
			tenure: contracts.MonthDiff(cohort, o.OrderDate) + 1,
		}
		if active[key] == nil {
			active[key] = make(map[string]bool)
		}
		active[key][o.CustomerID] = true
	}

	cells := make([]contracts.CohortCell, 0, len(active))
	for key, customers := range active {
		cells = append(cells, contracts.CohortCell{
			CohortMonth:     key.cohort,
			Cohort:          contracts.MonthLabel(key.cohort),
			TenureIndex:     key.tenure,
			ActiveCustomers: len(customers),
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if !cells[i].CohortMonth.Equal(cells[j].CohortMonth) {
			return cells[i].CohortMonth.Before(cells[j].CohortMonth)
		}
		return cells[i].TenureIndex < cells[j].TenureIndex
	})

	b.logger.WithFields(map[string]interface{}{
		"orders":    len(orders),
		"customers": len(cohortOf),
		"cells":     len(cells),
	}).Debug("Computed cohort matrix")

	return cells, nil
}
