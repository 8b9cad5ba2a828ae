package dataset

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/pkg/config"
	"github.com/jaylee/storepulse/pkg/logger"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// PostgresSource reads the order table from PostgreSQL. The connection
// pool is owned by the source and released by Close.
type PostgresSource struct {
	pool   *pgxpool.Pool
	table  string
	logger *logger.Logger
}

// NewPostgresSource creates a pooled PostgreSQL order source.
func NewPostgresSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (*PostgresSource, error) {
	if !tableNamePattern.MatchString(cfg.Dataset.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Dataset.Table)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresSource{
		pool:   pool,
		table:  cfg.Dataset.Table,
		logger: log,
	}, nil
}

// Load reads the complete order table.
func (s *PostgresSource) Load(ctx context.Context) ([]contracts.OrderRecord, error) {
	query := fmt.Sprintf(
		`SELECT order_id, order_date, customer_id, revenue, category, region, channel
		 FROM %s ORDER BY order_id`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []contracts.OrderRecord
	for rows.Next() {
		var o contracts.OrderRecord
		if err := rows.Scan(
			&o.OrderID, &o.OrderDate, &o.CustomerID, &o.Revenue,
			&o.Category, &o.Region, &o.Channel,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"table":  s.table,
		"orders": len(orders),
	}).Info("Loaded orders from PostgreSQL")

	return orders, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
