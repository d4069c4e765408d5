// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the platform.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
)

// Connection owns the pgx connection pool for the process.
type Connection struct {
	pool   *pgxpool.Pool
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens a pool against the configured database and verifies it
// with a ping.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("connected to postgres",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return &Connection{pool: pool, logger: log}, nil
}

// NewConnectionWithPool wraps an existing pool. Used by tests.
func NewConnectionWithPool(pool *pgxpool.Pool, log logging.Logger) *Connection {
	return &Connection{pool: pool, logger: log}
}

// Pool returns the underlying pgx pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and reports pool pressure.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	stats := c.pool.Stat()
	if stats.MaxConns() > 0 {
		usage := float64(stats.AcquiredConns()) / float64(stats.MaxConns())
		if usage > 0.8 {
			c.logger.Warn("high database connection pool usage",
				logging.Int("acquired", int(stats.AcquiredConns())),
				logging.Int("max", int(stats.MaxConns())),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close shuts the pool down; safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("postgres connection pool closed")
	})
}

// WithTransaction runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx, ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx, ctx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

// BuildDSN constructs the postgres connection URL from configuration.
func BuildDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
