package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

func newCohortBuilder() *CohortBuilder {
	return NewCohortBuilder(logger.NewNop())
}

func TestCohortBuilder_EmptyInput(t *testing.T) {
	cells, err := newCohortBuilder().Compute(nil)

	require.NoError(t, err)
	assert.Len(t, cells, 0)
}

func TestCohortBuilder_ConcreteScenario(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	orders := []contracts.OrderRecord{
		testOrder("o1", "A", jan, 100),
		testOrder("o2", "A", feb, 50),
		testOrder("o3", "B", jan, 200),
	}

	cells, err := newCohortBuilder().Compute(orders)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	janMonth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, cells[0].CohortMonth.Equal(janMonth))
	assert.Equal(t, "2024-01", cells[0].Cohort)
	assert.Equal(t, 1, cells[0].TenureIndex)
	assert.Equal(t, 2, cells[0].ActiveCustomers, "both customers ordered in January")

	assert.True(t, cells[1].CohortMonth.Equal(janMonth))
	assert.Equal(t, 2, cells[1].TenureIndex)
	assert.Equal(t, 1, cells[1].ActiveCustomers, "only A ordered in February")
}

func TestCohortBuilder_TenureFloor(t *testing.T) {
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC), 10),
		testOrder("o2", "c1", time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), 10),
		testOrder("o3", "c2", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 10),
		testOrder("o4", "c2", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 10),
	}

	cells, err := newCohortBuilder().Compute(orders)
	require.NoError(t, err)

	for _, cell := range cells {
		assert.GreaterOrEqual(t, cell.TenureIndex, 1)
		assert.Greater(t, cell.ActiveCustomers, 0, "zero cells must be omitted")
	}

	// c1's March order is 4 months after the November cohort month.
	maxTenure := 0
	for _, cell := range cells {
		if cell.Cohort == "2023-11" && cell.TenureIndex > maxTenure {
			maxTenure = cell.TenureIndex
		}
	}
	assert.Equal(t, 5, maxTenure)
}

func TestCohortBuilder_InitialSizeAtTenureOne(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", jan, 10),
		testOrder("o2", "c2", jan, 10),
		testOrder("o3", "c3", jan, 10),
		testOrder("o4", "c4", feb, 10),
		testOrder("o5", "c1", feb, 10),
	}

	cells, err := newCohortBuilder().Compute(orders)
	require.NoError(t, err)

	var janInitial, febInitial int
	for _, c := range cells {
		if c.TenureIndex != 1 {
			continue
		}
		switch c.Cohort {
		case "2024-01":
			janInitial = c.ActiveCustomers
		case "2024-02":
			febInitial = c.ActiveCustomers
		}
	}
	assert.Equal(t, 3, janInitial, "customers whose earliest order is in January")
	assert.Equal(t, 1, febInitial, "only c4 first appears in February")
}

func TestCohortBuilder_FilterScopedCohorts(t *testing.T) {
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	full := []contracts.OrderRecord{
		testOrder("o1", "c1", jan, 10),
		testOrder("o2", "c1", mar, 10),
	}

	// Cohort assignment follows the table handed in: with January rows
	// filtered away, c1's cohort becomes March.
	filtered := full[1:]

	cells, err := newCohortBuilder().Compute(filtered)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	assert.Equal(t, "2024-03", cells[0].Cohort)
	assert.Equal(t, 1, cells[0].TenureIndex)
}

func TestCohortBuilder_InvalidInput(t *testing.T) {
	orders := []contracts.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", OrderDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 10},
		{OrderID: "o2", CustomerID: "", OrderDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Revenue: 10},
	}

	cells, err := newCohortBuilder().Compute(orders)

	require.Error(t, err)
	assert.True(t, contracts.IsInvalidInput(err))
	assert.Nil(t, cells)
}

func TestCohortBuilder_Determinism(t *testing.T) {
	orders := []contracts.OrderRecord{
		testOrder("o1", "c1", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 10),
		testOrder("o2", "c2", time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), 20),
		testOrder("o3", "c1", time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC), 30),
		testOrder("o4", "c3", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), 40),
		testOrder("o5", "c2", time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), 50),
	}

	first, err := newCohortBuilder().Compute(orders)
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		again, err := newCohortBuilder().Compute(orders)
		require.NoError(t, err)
		assert.True(t, reflect.DeepEqual(first, again), "run %d differs", run)
	}
}
