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

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Compute headline KPIs, monthly revenue and breakdowns",
	Long: `Prints the dashboard aggregates for the filtered order table: total
revenue, order and customer counts, the monthly revenue series and
category/region breakdowns.

Example:
  go run ./cmd/storepulse summary
  go run ./cmd/storepulse summary --channel web --export reports/`,
	RunE: runSummary,
}

var (
	summaryFilters   filterFlags
	summaryExportDir string
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryExportDir, "export", "", "export directory for JSON output")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	orders, err := loadFilteredOrders(ctx, cfg, log, &summaryFilters)
	if err != nil {
		return err
	}

	calc := analytics.NewSummaryCalculator(log)

	summary, err := calc.Compute(orders)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}
	monthly, err := calc.MonthlyRevenue(orders)
	if err != nil {
		return fmt.Errorf("compute monthly revenue: %w", err)
	}
	categories, err := calc.Breakdown(orders, analytics.DimensionCategory)
	if err != nil {
		return fmt.Errorf("compute category breakdown: %w", err)
	}
	regions, err := calc.Breakdown(orders, analytics.DimensionRegion)
	if err != nil {
		return fmt.Errorf("compute region breakdown: %w", err)
	}

	if summaryExportDir != "" {
		exporter := reports.NewExporter(summaryExportDir, log)
		path, err := exporter.JSON("summary", map[string]interface{}{
			"summary":         summary,
			"monthly_revenue": monthly,
			"by_category":     categories,
			"by_region":       regions,
		})
		if err != nil {
			return err
		}
		fmt.Println("exported:", path)
		return nil
	}

	fmt.Printf("Total revenue:      %.2f\n", summary.TotalRevenue)
	fmt.Printf("Orders:             %d\n", summary.TotalOrders)
	fmt.Printf("Distinct customers: %d\n", summary.DistinctCustomers)
	fmt.Printf("Avg order value:    %.2f\n", summary.AvgOrderValue)

	fmt.Println("\nMonthly revenue:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tREVENUE\tORDERS")
	for _, m := range monthly {
		fmt.Fprintf(w, "%s\t%.2f\t%d\n", m.Month, m.Revenue, m.OrderCount)
	}
	w.Flush()

	fmt.Println("\nBy category:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tREVENUE\tSHARE")
	for _, row := range categories {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\n", row.Name, row.Revenue, row.RevenueShare*100)
	}
	w.Flush()

	fmt.Println("\nBy region:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tREVENUE\tSHARE")
	for _, row := range regions {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\n", row.Name, row.Revenue, row.RevenueShare*100)
	}
	w.Flush()

	return nil
}
