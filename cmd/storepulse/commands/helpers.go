package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/internal/dataset"
	"github.com/jaylee/storepulse/internal/filter"
	"github.com/jaylee/storepulse/pkg/config"
	"github.com/jaylee/storepulse/pkg/logger"
)

const flagDateLayout = "2006-01-02"

// filterFlags holds the filter options shared by the analytics commands.
type filterFlags struct {
	from       string
	to         string
	categories []string
	regions    []string
	channels   []string
	minRevenue float64
	expr       string
}

// register adds the filter flags to a command.
func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "category filter (repeatable)")
	cmd.Flags().StringSliceVar(&f.regions, "region", nil, "region filter (repeatable)")
	cmd.Flags().StringSliceVar(&f.channels, "channel", nil, "channel filter (repeatable)")
	cmd.Flags().Float64Var(&f.minRevenue, "min-revenue", 0, "minimum order revenue")
	cmd.Flags().StringVar(&f.expr, "expr", "", "CEL predicate, e.g. 'order.revenue > 50.0'")
}

// build converts the raw flag values into a criteria and compiled expression.
func (f *filterFlags) build() (*filter.Criteria, *filter.Expression, error) {
	criteria := &filter.Criteria{
		Categories: f.categories,
		Regions:    f.regions,
		Channels:   f.channels,
		MinRevenue: f.minRevenue,
	}

	if f.from != "" {
		t, err := time.ParseInLocation(flagDateLayout, f.from, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --from date %q: %w", f.from, err)
		}
		criteria.From = t
	}
	if f.to != "" {
		t, err := time.ParseInLocation(flagDateLayout, f.to, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --to date %q: %w", f.to, err)
		}
		criteria.To = t
	}

	expr, err := filter.New(f.expr)
	if err != nil {
		return nil, nil, err
	}

	return criteria, expr, nil
}

// setup loads configuration and builds the logger. --verbose forces debug
// logging regardless of LOG_LEVEL.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}

// loadFilteredOrders loads the configured source and applies the filter
// flags. CSV loads show a progress bar since this is an interactive run.
func loadFilteredOrders(ctx context.Context, cfg *config.Config, log *logger.Logger, flags *filterFlags) ([]contracts.OrderRecord, error) {
	criteria, expr, err := flags.build()
	if err != nil {
		return nil, err
	}

	source, err := dataset.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer source.Close()

	if csvSource, ok := source.(*dataset.CSVSource); ok {
		csvSource.ShowProgress = true
	}

	orders, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	filtered, err := filter.Apply(orders, criteria, expr)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"loaded":   len(orders),
		"filtered": len(filtered),
	}).Debug("Applied filters")

	return filtered, nil
}
