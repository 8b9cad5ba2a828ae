package analytics

import (
	"sort"
	"time"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/internal/segpolicy"
	"github.com/jaylee/storepulse/pkg/logger"
)

// RFMCalculator computes per-customer Recency/Frequency/Monetary metrics
// and assigns a value segment from monetary tertiles.
type RFMCalculator struct {
	policy *segpolicy.Policy
	logger *logger.Logger
}

// NewRFMCalculator creates a new RFM calculator.
func NewRFMCalculator(policy *segpolicy.Policy, log *logger.Logger) *RFMCalculator {
	return &RFMCalculator{
		policy: policy,
		logger: log,
	}
}

// Compute derives one RFMRow per distinct customer in the input table.
//
// The recency snapshot is one day after the newest order date in the
// table, so the most recently active customer has recency_days = 1.
// Frequency counts distinct order IDs, monetary sums revenue. Output is
// ordered by customer ID ascending; identical input always yields
// identical output.
func (c *RFMCalculator) Compute(orders []contracts.OrderRecord) ([]contracts.RFMRow, error) {
	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []contracts.RFMRow{}, nil
	}

	snapshot := snapshotDate(orders)

	// Group by customer
	type customerAgg struct {
		lastOrder time.Time
		orderIDs  map[string]bool
		monetary  float64
	}
	byCustomer := make(map[string]*customerAgg)
	for _, o := range orders {
		agg, ok := byCustomer[o.CustomerID]
		if !ok {
			agg = &customerAgg{orderIDs: make(map[string]bool)}
			byCustomer[o.CustomerID] = agg
		}
		if o.OrderDate.After(agg.lastOrder) {
			agg.lastOrder = o.OrderDate
		}
		agg.orderIDs[o.OrderID] = true
		agg.monetary += o.Revenue
	}

	rows := make([]contracts.RFMRow, 0, len(byCustomer))
	for id, agg := range byCustomer {
		rows = append(rows, contracts.RFMRow{
			CustomerID:  id,
			RecencyDays: daysBetween(agg.lastOrder, snapshot),
			Frequency:   len(agg.orderIDs),
			Monetary:    agg.monetary,
		})
	}

	c.assignSegments(rows)

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CustomerID < rows[j].CustomerID
	})

	c.logger.WithFields(map[string]interface{}{
		"orders":    len(orders),
		"customers": len(rows),
		"snapshot":  snapshot.Format("2006-01-02"),
	}).Debug("Computed RFM table")

	return rows, nil
}

// assignSegments partitions customers into three equal-population buckets
// by monetary value. Rows are ranked by (monetary asc, customer_id asc)
// and bucket membership follows rank position, so tied monetary values
// resolve deterministically. Populations smaller than three cannot form
// tertiles; every customer then receives the policy's degenerate label.
func (c *RFMCalculator) assignSegments(rows []contracts.RFMRow) {
	n := len(rows)
	if n < 3 {
		for i := range rows {
			rows[i].Segment = c.policy.DegenerateLabel
		}
		return
	}

	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	sort.Slice(ranked, func(a, b int) bool {
		ri, rj := rows[ranked[a]], rows[ranked[b]]
		if ri.Monetary != rj.Monetary {
			return ri.Monetary < rj.Monetary
		}
		return ri.CustomerID < rj.CustomerID
	})

	for pos, idx := range ranked {
		// pos*3/n maps rank positions onto buckets 0..2 with sizes
		// differing by at most one.
		rows[idx].Segment = c.policy.Buckets[pos*3/n]
	}
}

// snapshotDate returns one day after the newest order date in the table,
// at day precision UTC.
func snapshotDate(orders []contracts.OrderRecord) time.Time {
	var max time.Time
	for _, o := range orders {
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return dayOf(max).AddDate(0, 0, 1)
}

// dayOf truncates a timestamp to midnight UTC.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b at day precision.
func daysBetween(a, b time.Time) int {
	return int(dayOf(b).Sub(dayOf(a)) / (24 * time.Hour))
}
