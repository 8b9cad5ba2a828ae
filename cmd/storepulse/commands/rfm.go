package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaylee/storepulse/internal/analytics"
	"github.com/jaylee/storepulse/internal/reports"
	"github.com/jaylee/storepulse/internal/segpolicy"
)

// rfmCmd represents the rfm command
var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Compute the RFM segmentation table",
	Long: `Computes Recency/Frequency/Monetary metrics per customer and assigns
a value segment from monetary tertiles.

Example:
  go run ./cmd/storepulse rfm
  go run ./cmd/storepulse rfm --category Books --from 2024-01-01
  go run ./cmd/storepulse rfm --export reports/ --format csv`,
	RunE: runRFM,
}

var (
	rfmFilters   filterFlags
	rfmExportDir string
	rfmFormat    string
)

func init() {
	rootCmd.AddCommand(rfmCmd)

	rfmFilters.register(rfmCmd)
	rfmCmd.Flags().StringVar(&rfmExportDir, "export", "", "export directory (disables table output)")
	rfmCmd.Flags().StringVar(&rfmFormat, "format", "json", "export format (json|csv)")
}

func runRFM(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	orders, err := loadFilteredOrders(ctx, cfg, log, &rfmFilters)
	if err != nil {
		return err
	}

	policy, err := segpolicy.LoadOrDefault(cfg.SegmentationConfigPath)
	if err != nil {
		return fmt.Errorf("load segmentation policy: %w", err)
	}

	rows, err := analytics.NewRFMCalculator(policy, log).Compute(orders)
	if err != nil {
		return fmt.Errorf("compute rfm: %w", err)
	}

	if rfmExportDir != "" {
		exporter := reports.NewExporter(rfmExportDir, log)
		var path string
		switch rfmFormat {
		case "json":
			path, err = exporter.JSON("rfm", rows)
		case "csv":
			path, err = exporter.RFMCSV("rfm", rows)
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", rfmFormat)
		}
		if err != nil {
			return err
		}
		fmt.Println("exported:", path)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CUSTOMER\tRECENCY(D)\tFREQUENCY\tMONETARY\tSEGMENT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%s\n",
			r.CustomerID, r.RecencyDays, r.Frequency, r.Monetary, r.Segment)
	}
	w.Flush()
	fmt.Printf("\n%d customers\n", len(rows))

	return nil
}
