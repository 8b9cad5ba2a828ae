package reports

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	e := NewExporter(t.TempDir(), logger.NewNop())
	e.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestExporter_JSON(t *testing.T) {
	e := newTestExporter(t)

	summary := &contracts.Summary{TotalRevenue: 300, TotalOrders: 3, DistinctCustomers: 2, AvgOrderValue: 100}
	path, err := e.JSON("summary", summary)
	require.NoError(t, err)
	assert.Contains(t, path, "summary_20240601_120000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got contracts.Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *summary, got)
}

func TestExporter_RFMCSV(t *testing.T) {
	e := newTestExporter(t)

	rows := []contracts.RFMRow{
		{CustomerID: "c1", RecencyDays: 6, Frequency: 2, Monetary: 150, Segment: contracts.SegmentMid},
	}
	path, err := e.RFMCSV("rfm", rows)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"customer_id", "recency_days", "frequency", "monetary", "segment"}, records[0])
	assert.Equal(t, []string{"c1", "6", "2", "150", "Mid"}, records[1])
}

func TestExporter_CohortCSV(t *testing.T) {
	e := newTestExporter(t)

	cells := []contracts.CohortCell{
		{Cohort: "2024-01", TenureIndex: 1, ActiveCustomers: 2},
		{Cohort: "2024-01", TenureIndex: 2, ActiveCustomers: 1},
	}
	path, err := e.CohortCSV("cohorts", cells)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2024-01", "2", "1"}, records[2])
}
