package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/logger"
)

// csvColumns is the required header, in order. Extra columns are rejected
// rather than ignored so schema drift surfaces immediately.
var csvColumns = []string{
	"order_id", "order_date", "customer_id", "revenue",
	"category", "region", "channel",
}

const csvDateLayout = "2006-01-02"

// CSVSource reads the synthetic e-commerce dataset from a CSV file.
type CSVSource struct {
	path   string
	logger *logger.Logger

	// ShowProgress renders a byte-progress bar during Load, for
	// interactive CLI use.
	ShowProgress bool
}

// NewCSVSource creates a CSV-backed order source.
func NewCSVSource(path string, log *logger.Logger) *CSVSource {
	return &CSVSource{path: path, logger: log}
}

// Load reads and validates the whole file.
func (s *CSVSource) Load(ctx context.Context) ([]contracts.OrderRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if s.ShowProgress {
		if info, err := f.Stat(); err == nil {
			bar := progressbar.DefaultBytes(info.Size(), "loading orders")
			reader = io.TeeReader(f, bar)
		}
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = len(csvColumns)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var orders []contracts.OrderRecord
	for row := 0; ; row++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		order, err := parseRow(row, record)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":   s.path,
		"orders": len(orders),
	}).Info("Loaded CSV dataset")

	return orders, nil
}

// Close is a no-op; the file handle only lives for the duration of Load.
func (s *CSVSource) Close() {}

func checkHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return &contracts.InvalidInputError{
			Row:    -1,
			Field:  "header",
			Reason: fmt.Sprintf("expected %d columns, got %d", len(csvColumns), len(header)),
		}
	}
	for i, want := range csvColumns {
		if header[i] != want {
			return &contracts.InvalidInputError{
				Row:    -1,
				Field:  "header",
				Reason: fmt.Sprintf("column %d is %q, want %q", i, header[i], want),
			}
		}
	}
	return nil
}

func parseRow(row int, record []string) (contracts.OrderRecord, error) {
	date, err := time.ParseInLocation(csvDateLayout, record[1], time.UTC)
	if err != nil {
		return contracts.OrderRecord{}, &contracts.InvalidInputError{
			Row:    row,
			Field:  "order_date",
			Reason: fmt.Sprintf("unparseable date %q", record[1]),
		}
	}

	revenue, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return contracts.OrderRecord{}, &contracts.InvalidInputError{
			Row:    row,
			Field:  "revenue",
			Reason: fmt.Sprintf("unparseable number %q", record[3]),
		}
	}

	return contracts.OrderRecord{
		OrderID:    record[0],
		OrderDate:  date,
		CustomerID: record[2],
		Revenue:    revenue,
		Category:   record[4],
		Region:     record[5],
		Channel:    record[6],
	}, nil
}
