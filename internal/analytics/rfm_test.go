package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/internal/segpolicy"
	"github.com/jaylee/storepulse/pkg/logger"
)

func testOrder(orderID, customerID string, date time.Time, revenue float64) contracts.OrderRecord {
	return contracts.OrderRecord{
		OrderID:    orderID,
		OrderDate:  date,
		CustomerID: customerID,
		Revenue:    revenue,
		Category:   "Books",
		Region:     "EU",
		Channel:    "web",
	}
}

func newRFMCalculator() *RFMCalculator {
	return NewRFMCalculator(segpolicy.Default(), logger.NewNop())
}

func TestRFMCalculator_EmptyInput(t *testing.T) {
	rows, err := newRFMCalculator().Compute(nil)

	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestRFMCalculator_RowCountInvariant(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", jan, 10),
		testOrder("o2", "c1", jan.AddDate(0, 0, 5), 20),
		testOrder("o3", "c2", jan, 30),
		testOrder("o4", "c3", jan, 40),
		testOrder("o5", "c3", jan.AddDate(0, 1, 0), 50),
	}

	rows, err := newRFMCalculator().Compute(orders)

	require.NoError(t, err)
	assert.Len(t, rows, 3, "one row per distinct customer")
}

func TestRFMCalculator_Metrics(t *testing.T) {
	calc := newRFMCalculator()

	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 100),
		testOrder("o2", "c1", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 50),
		// Two line items of the same order: frequency counts distinct IDs.
		testOrder("o3", "c2", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), 30),
		testOrder("o3", "c2", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), 70),
	}

	rows, err := calc.Compute(orders)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Output is sorted by customer ID.
	c1, c2 := rows[0], rows[1]

	assert.Equal(t, "c1", c1.CustomerID)
	assert.Equal(t, 2, c1.Frequency)
	assert.Equal(t, 150.0, c1.Monetary)
	// Snapshot is 2024-01-26; c1 last ordered on the 20th.
	assert.Equal(t, 6, c1.RecencyDays)

	assert.Equal(t, "c2", c2.CustomerID)
	assert.Equal(t, 1, c2.Frequency, "repeated order ID counted once")
	assert.Equal(t, 100.0, c2.Monetary)
	assert.Equal(t, 1, c2.RecencyDays, "most recent customer has recency 1")
}

func TestRFMCalculator_SegmentCoverage(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var orders []contracts.OrderRecord
	for i := 0; i < 9; i++ {
		id := string(rune('a' + i))
		orders = append(orders, testOrder("o-"+id, "c-"+id, day, float64((i+1)*10)))
	}

	rows, err := newRFMCalculator().Compute(orders)
	require.NoError(t, err)
	require.Len(t, rows, 9)

	counts := map[contracts.Segment]int{}
	for _, r := range rows {
		counts[r.Segment]++
	}
	assert.Equal(t, 3, counts[contracts.SegmentLow])
	assert.Equal(t, 3, counts[contracts.SegmentMid])
	assert.Equal(t, 3, counts[contracts.SegmentHigh])

	// Ascending monetary maps onto ascending segments.
	for _, r := range rows {
		switch {
		case r.Monetary <= 30:
			assert.Equal(t, contracts.SegmentLow, r.Segment, "customer %s", r.CustomerID)
		case r.Monetary <= 60:
			assert.Equal(t, contracts.SegmentMid, r.Segment, "customer %s", r.CustomerID)
		default:
			assert.Equal(t, contracts.SegmentHigh, r.Segment, "customer %s", r.CustomerID)
		}
	}
}

func TestRFMCalculator_DegenerateSmallPopulation(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	// The concrete two-customer scenario: tertiles cannot form, so both
	// customers share the degenerate label.
	orders := []contracts.OrderRecord{
		testOrder("o1", "A", jan, 100),
		testOrder("o2", "A", feb, 50),
		testOrder("o3", "B", jan, 200),
	}

	rows, err := newRFMCalculator().Compute(orders)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	a, b := rows[0], rows[1]
	assert.Equal(t, "A", a.CustomerID)
	assert.Equal(t, 2, a.Frequency)
	assert.Equal(t, 150.0, a.Monetary)
	assert.Equal(t, "B", b.CustomerID)
	assert.Equal(t, 1, b.Frequency)
	assert.Equal(t, 200.0, b.Monetary)

	for _, r := range rows {
		assert.Equal(t, contracts.SegmentMid, r.Segment)
	}
}

func TestRFMCalculator_TieBreakDeterministic(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// Four customers with identical monetary value: ranking falls back to
	// customer ID, so bucket membership is fixed, not arbitrary per run.
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", day, 100),
		testOrder("o2", "c2", day, 100),
		testOrder("o3", "c3", day, 100),
		testOrder("o4", "c4", day, 100),
	}

	first, err := newRFMCalculator().Compute(orders)
	require.NoError(t, err)

	want := []contracts.Segment{
		contracts.SegmentLow, contracts.SegmentLow,
		contracts.SegmentMid, contracts.SegmentHigh,
	}
	for i, r := range first {
		assert.Equal(t, want[i], r.Segment, "customer %s", r.CustomerID)
	}

	for run := 0; run < 5; run++ {
		again, err := newRFMCalculator().Compute(orders)
		require.NoError(t, err)
		assert.True(t, reflect.DeepEqual(first, again), "run %d differs", run)
	}
}

func TestRFMCalculator_NegativeRevenue(t *testing.T) {
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 100),
		testOrder("o2", "c2", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), -5),
	}

	rows, err := newRFMCalculator().Compute(orders)

	require.Error(t, err)
	assert.True(t, contracts.IsInvalidInput(err))
	assert.Nil(t, rows, "no partial output on invalid input")
}

func TestRFMCalculator_MissingDate(t *testing.T) {
	orders := []contracts.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", Revenue: 10},
	}

	_, err := newRFMCalculator().Compute(orders)

	require.Error(t, err)
	assert.True(t, contracts.IsInvalidInput(err))
}

func TestRFMCalculator_SingleDateSnapshot(t *testing.T) {
	day := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", day, 10),
		testOrder("o2", "c2", day, 20),
		testOrder("o3", "c3", day, 30),
	}

	rows, err := newRFMCalculator().Compute(orders)
	require.NoError(t, err)

	// All orders on the same date: snapshot is that date + 1 day.
	for _, r := range rows {
		assert.Equal(t, 1, r.RecencyDays)
	}
}
