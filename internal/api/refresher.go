package api

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jaylee/storepulse/internal/dataset"
	"github.com/jaylee/storepulse/pkg/logger"
)

// Refresher reloads the snapshot store from the order source, once at
// startup and then on a cron schedule. The pipeline itself caches
// nothing; only the raw input table is held between requests.
type Refresher struct {
	source   dataset.Source
	store    *dataset.SnapshotStore
	schedule string // cron spec; empty disables periodic refresh
	logger   *logger.Logger
	cron     *cron.Cron
}

// NewRefresher creates a refresher for the given source and store.
func NewRefresher(source dataset.Source, store *dataset.SnapshotStore, schedule string, log *logger.Logger) *Refresher {
	return &Refresher{
		source:   source,
		store:    store,
		schedule: schedule,
		logger:   log,
	}
}

// Refresh loads the order table once and swaps it into the store.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	orders, err := r.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	r.store.Set(orders)

	r.logger.WithFields(map[string]interface{}{
		"orders":   len(orders),
		"duration": time.Since(start),
	}).Info("Snapshot refreshed")

	return nil
}

// Start performs the initial load and, when a schedule is configured,
// begins periodic refreshes. A failed periodic refresh keeps the previous
// snapshot and is logged, not fatal.
func (r *Refresher) Start(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}

	if r.schedule == "" {
		return nil
	}

	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.WithError(err).Error("Scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}

	r.cron.Start()
	r.logger.WithField("schedule", r.schedule).Info("Refresh schedule started")
	return nil
}

// Stop halts the refresh schedule if one is running.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
