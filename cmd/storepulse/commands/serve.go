package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jaylee/storepulse/internal/analytics"
	"github.com/jaylee/storepulse/internal/api"
	"github.com/jaylee/storepulse/internal/api/handlers"
	"github.com/jaylee/storepulse/internal/dataset"
	"github.com/jaylee/storepulse/internal/segpolicy"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analytics API server",
	Long: `Starts the JSON API server over the configured order source.

The order table is loaded into an in-memory snapshot at startup and
optionally reloaded on a cron schedule (REFRESH_SCHEDULE). Every request
filters the snapshot and recomputes its tables from scratch.

Endpoints:
  GET /health
  GET /api/analytics/rfm
  GET /api/analytics/cohorts
  GET /api/analytics/summary
  GET /api/analytics/revenue/monthly
  GET /api/analytics/breakdown/{dimension}

Example:
  go run ./cmd/storepulse serve
  go run ./cmd/storepulse serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "override the configured port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	policy, err := segpolicy.LoadOrDefault(cfg.SegmentationConfigPath)
	if err != nil {
		return fmt.Errorf("load segmentation policy: %w", err)
	}
	policyHash, err := segpolicy.Hash(policy)
	if err != nil {
		return fmt.Errorf("hash segmentation policy: %w", err)
	}
	log.WithField("policy_hash", policyHash).Info("Segmentation policy loaded")

	ctx := context.Background()
	source, err := dataset.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer source.Close()

	store := dataset.NewSnapshotStore()
	refresher := api.NewRefresher(source, store, cfg.RefreshSchedule, log)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	handler := handlers.NewAnalyticsHandler(
		store,
		analytics.NewRFMCalculator(policy, log),
		analytics.NewCohortBuilder(log),
		analytics.NewSummaryCalculator(log),
		log,
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	router := api.NewRouter(handler, limiter, log)
	server := api.New(cfg, log, router)

	// Run server in background, wait for shutdown signal.
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
