package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jaylee/storepulse/internal/filter"
)

const dateLayout = "2006-01-02"

// parseFilters maps query parameters onto the filter layer:
//
//	from, to      - inclusive date range (YYYY-MM-DD)
//	category      - repeatable dimension values
//	region        - repeatable dimension values
//	channel       - repeatable dimension values
//	min_revenue   - revenue floor
//	expr          - CEL predicate over the order row
func parseFilters(r *http.Request) (*filter.Criteria, *filter.Expression, error) {
	q := r.URL.Query()
	criteria := &filter.Criteria{
		Categories: q["category"],
		Regions:    q["region"],
		Channels:   q["channel"],
	}

	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid 'from' date %q, want YYYY-MM-DD", v)
		}
		criteria.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid 'to' date %q, want YYYY-MM-DD", v)
		}
		criteria.To = t
	}
	if !criteria.From.IsZero() && !criteria.To.IsZero() && criteria.To.Before(criteria.From) {
		return nil, nil, fmt.Errorf("'to' date is before 'from' date")
	}

	if v := q.Get("min_revenue"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, nil, fmt.Errorf("invalid 'min_revenue' %q", v)
		}
		criteria.MinRevenue = f
	}

	expr, err := filter.New(q.Get("expr"))
	if err != nil {
		return nil, nil, err
	}

	return criteria, expr, nil
}
