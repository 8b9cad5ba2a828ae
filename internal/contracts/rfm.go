package contracts

// Segment is a customer value tier derived from monetary tertiles.
type Segment string

const (
	SegmentLow  Segment = "Low"
	SegmentMid  Segment = "Mid"
	SegmentHigh Segment = "High"
)

// IsValid reports whether s is one of the three known segment labels.
func (s Segment) IsValid() bool {
	return s == SegmentLow || s == SegmentMid || s == SegmentHigh
}

// RFMRow holds the Recency/Frequency/Monetary metrics and derived segment
// for one customer. Exactly one row exists per distinct customer in the
// input table.
type RFMRow struct {
	CustomerID  string  `json:"customer_id"`
	RecencyDays int     `json:"recency_days"` // days from last order to the snapshot instant
	Frequency   int     `json:"frequency"`    // distinct order count
	Monetary    float64 `json:"monetary"`     // total revenue
	Segment     Segment `json:"segment"`
}
