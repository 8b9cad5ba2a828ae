// Package dataset loads the order table the pipeline consumes. Loading is
// strictly read-only: nothing derived is ever written back to a source.
package dataset

import (
	"context"
	"fmt"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/config"
	"github.com/jaylee/storepulse/pkg/logger"
)

// Source produces a full snapshot of the order table. Implementations
// validate at the boundary: a malformed row fails the whole load with
// *contracts.InvalidInputError instead of being coerced or skipped.
type Source interface {
	// Load reads the complete order table.
	Load(ctx context.Context) ([]contracts.OrderRecord, error)

	// Close releases any underlying resources.
	Close()
}

// New builds the source selected by the configuration.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (Source, error) {
	switch cfg.Dataset.Source {
	case "csv":
		return NewCSVSource(cfg.Dataset.Path, log), nil
	case "postgres":
		return NewPostgresSource(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}
