// Package reports writes computed analytics tables to disk as JSON or CSV
// for downstream tooling; the serving layer never reads these files back.
package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

// Exporter writes timestamped report files under a base directory.
type Exporter struct {
	dir    string
	logger *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string, log *logger.Logger) *Exporter {
	return &Exporter{dir: dir, logger: log, now: time.Now}
}

// JSON writes any table as indented JSON and returns the file path.
func (e *Exporter) JSON(name string, data interface{}) (string, error) {
	path := e.filename(name, "json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("write JSON: %w", err)
	}

	e.logger.WithField("path", path).Info("Exported report")
	return path, nil
}

// RFMCSV writes an RFM table as CSV and returns the file path.
func (e *Exporter) RFMCSV(name string, rows []contracts.RFMRow) (string, error) {
	records := [][]string{{"customer_id", "recency_days", "frequency", "monetary", "segment"}}
	for _, r := range rows {
		records = append(records, []string{
			r.CustomerID,
			strconv.Itoa(r.RecencyDays),
			strconv.Itoa(r.Frequency),
			formatFloat(r.Monetary),
			string(r.Segment),
		})
	}
	return e.writeCSV(name, records)
}

// CohortCSV writes a cohort matrix as CSV and returns the file path.
func (e *Exporter) CohortCSV(name string, cells []contracts.CohortCell) (string, error) {
	records := [][]string{{"cohort_month", "tenure_index", "active_customers"}}
	for _, c := range cells {
		records = append(records, []string{
			c.Cohort,
			strconv.Itoa(c.TenureIndex),
			strconv.Itoa(c.ActiveCustomers),
		})
	}
	return e.writeCSV(name, records)
}

// BreakdownCSV writes a dimension breakdown as CSV and returns the path.
func (e *Exporter) BreakdownCSV(name string, rows []contracts.BreakdownRow) (string, error) {
	records := [][]string{{"name", "revenue", "order_count", "revenue_share"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			formatFloat(r.Revenue),
			strconv.Itoa(r.OrderCount),
			formatFloat(r.RevenueShare),
		})
	}
	return e.writeCSV(name, records)
}

func (e *Exporter) writeCSV(name string, records [][]string) (string, error) {
	path := e.filename(name, "csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write CSV: %w", err)
	}

	e.logger.WithField("path", path).Info("Exported report")
	return path, nil
}

func (e *Exporter) filename(name, ext string) string {
	ts := e.now().Format("20060102_150405")
	return filepath.Join(e.dir, fmt.Sprintf("%s_%s.%s", name, ts, ext))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
