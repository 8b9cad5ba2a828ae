// Package filter narrows an order table before it reaches the analytics
// pipeline. Filtering always produces a new slice; input tables are
// treated as immutable snapshots.
package filter

import (
	"time"

	"github.com/jaylee/storepulse/internal/contracts"
)

// Criteria is the structured filter set mirroring the dashboard sidebar:
// a date range, dimension values and a revenue floor. Zero values mean
// "no constraint".
type Criteria struct {
	From       time.Time // inclusive
	To         time.Time // inclusive
	Categories []string
	Regions    []string
	Channels   []string
	MinRevenue float64
}

// Matches reports whether the order satisfies every set constraint.
func (c *Criteria) Matches(o *contracts.OrderRecord) bool {
	if !c.From.IsZero() && o.OrderDate.Before(c.From) {
		return false
	}
	if !c.To.IsZero() && o.OrderDate.After(c.To) {
		return false
	}
	if len(c.Categories) > 0 && !contains(c.Categories, o.Category) {
		return false
	}
	if len(c.Regions) > 0 && !contains(c.Regions, o.Region) {
		return false
	}
	if len(c.Channels) > 0 && !contains(c.Channels, o.Channel) {
		return false
	}
	if c.MinRevenue > 0 && o.Revenue < c.MinRevenue {
		return false
	}
	return true
}

// IsZero reports whether no constraint is set.
func (c *Criteria) IsZero() bool {
	return c.From.IsZero() && c.To.IsZero() &&
		len(c.Categories) == 0 && len(c.Regions) == 0 && len(c.Channels) == 0 &&
		c.MinRevenue == 0
}

// Apply returns the orders matching both the criteria and the optional
// compiled expression. Either filter may be nil. The input slice is never
// mutated.
func Apply(orders []contracts.OrderRecord, criteria *Criteria, expr *Expression) ([]contracts.OrderRecord, error) {
	out := make([]contracts.OrderRecord, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if criteria != nil && !criteria.Matches(o) {
			continue
		}
		if expr != nil {
			ok, err := expr.Matches(o)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, *o)
	}
	return out, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
