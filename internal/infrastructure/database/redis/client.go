// Package redis wraps the go-redis client behind the cache ports the
// application layer consumes: the analysis result cache and the per-case
// analysis lock used by the worker fleet.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeDatabaseError, "redis connection failed")
)

// Client owns the redis connection pool for the process.
type Client struct {
	rdb    *redis.Client
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to redis and verifies the connection with a ping.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, ErrConnectionFailed
	}

	log.Info("redis client connected",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
	)
	return &Client{rdb: rdb, logger: log}, nil
}

// NewClientFromRDB wraps an existing redis client. Used by tests with
// redismock and by callers that manage the connection themselves.
func NewClientFromRDB(rdb *redis.Client, log logging.Logger) *Client {
	return &Client{rdb: rdb, logger: log}
}

func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("failed to close redis client", logging.Err(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}

// RDB exposes the underlying client for the cache and lock implementations.
func (c *Client) RDB() redis.Cmdable {
	return c.rdb
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
