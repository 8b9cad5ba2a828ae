package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaylee/storepulse/internal/analytics"
	"github.com/jaylee/storepulse/internal/reports"
)

// cohortCmd represents the cohort command
var cohortCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Compute the cohort retention matrix",
	Long: `Groups customers by first-purchase month and counts how many of each
cohort are still ordering at every tenure month.

Cohort assignment follows the filtered table: filtering away a customer's
early orders moves their cohort forward.

Example:
  go run ./cmd/storepulse cohort
  go run ./cmd/storepulse cohort --region EU --export reports/ --format csv`,
	RunE: runCohort,
}

var (
	cohortFilters   filterFlags
	cohortExportDir string
	cohortFormat    string
)

func init() {
	rootCmd.AddCommand(cohortCmd)

	cohortFilters.register(cohortCmd)
	cohortCmd.Flags().StringVar(&cohortExportDir, "export", "", "export directory (disables table output)")
	cohortCmd.Flags().StringVar(&cohortFormat, "format", "json", "export format (json|csv)")
}

func runCohort(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	orders, err := loadFilteredOrders(ctx, cfg, log, &cohortFilters)
	if err != nil {
		return err
	}

	cells, err := analytics.NewCohortBuilder(log).Compute(orders)
	if err != nil {
		return fmt.Errorf("compute cohorts: %w", err)
	}

	if cohortExportDir != "" {
		exporter := reports.NewExporter(cohortExportDir, log)
		var path string
		switch cohortFormat {
		case "json":
			path, err = exporter.JSON("cohorts", cells)
		case "csv":
			path, err = exporter.CohortCSV("cohorts", cells)
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", cohortFormat)
		}
		if err != nil {
			return err
		}
		fmt.Println("exported:", path)
		return nil
	}

	// Initial cohort sizes for retention percentages.
	initial := map[string]int{}
	for _, c := range cells {
		if c.TenureIndex == 1 {
			initial[c.Cohort] = c.ActiveCustomers
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COHORT\tTENURE\tACTIVE\tRETENTION")
	for _, c := range cells {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n",
			c.Cohort, c.TenureIndex, c.ActiveCustomers,
			c.RetentionRate(initial[c.Cohort])*100)
	}
	w.Flush()
	fmt.Printf("\n%d cells\n", len(cells))

	return nil
}
