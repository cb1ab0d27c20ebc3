// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the CaseRisk-Intelligence platform.  Repositories under
// postgres/repositories borrow the pool from a Connection; they never open
// their own.
package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// connectTimeout bounds the initial dial-and-ping when a Connection is
// opened.
const connectTimeout = 10 * time.Second

// poolUsageWarnThreshold is the acquired/total connection ratio above which
// HealthCheck reports the pool as degraded.
const poolUsageWarnThreshold = 0.9

// Connection wraps a pgx connection pool together with the configuration it
// was built from.
type Connection struct {
	pool      *pgxpool.Pool
	cfg       config.DatabaseConfig
	logger    logging.Logger
	closeOnce sync.Once
}

// NewConnection opens a pooled connection to PostgreSQL and verifies it with
// a ping.  The returned Connection owns the pool; callers must Close it on
// shutdown.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid postgres DSN")
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create postgres pool")
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError,
			fmt.Sprintf("failed to ping postgres at %s:%d", cfg.Host, cfg.Port))
	}

	logger.Info("postgres connection established",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", cfg.MaxConns),
	)

	return &Connection{pool: pool, cfg: cfg, logger: logger}, nil
}

// Pool exposes the underlying pgx pool for repositories.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and inspects pool saturation.  A reachable
// database with a nearly exhausted pool reports StatusDegraded rather than
// StatusDown.
func (c *Connection) HealthCheck(ctx context.Context) common.ComponentHealth {
	started := time.Now()
	health := common.ComponentHealth{Name: "postgres"}

	if err := c.pool.Ping(ctx); err != nil {
		health.Status = common.HealthDown
		health.Message = err.Error()
		return health
	}

	stat := c.pool.Stat()
	health.Status = common.HealthUp
	health.Latency = time.Since(started)

	if total := stat.TotalConns(); total > 0 {
		usage := float64(stat.AcquiredConns()) / float64(total)
		if usage >= poolUsageWarnThreshold {
			health.Status = common.HealthDegraded
			health.Message = fmt.Sprintf("connection pool %.0f%% saturated", usage*100)
			c.logger.Warn("postgres pool nearly saturated",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("total", int(total)),
			)
		}
	}
	return health
}

// Stat returns a snapshot of pool statistics for metrics export.
func (c *Connection) Stat() *pgxpool.Stat {
	return c.pool.Stat()
}

// Close releases the pool.  Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.logger.Info("closing postgres connection pool")
		c.pool.Close()
	})
}
