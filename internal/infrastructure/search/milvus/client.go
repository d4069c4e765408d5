// Package milvus hosts the precedent vector index: adjudicated division
// rulings embedded by their fault profile, searched at prediction time.
package milvus

import (
	"context"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
)

// milvusNewClient is a variable to allow mocking in tests.
var milvusNewClient = client.NewClient

// API is the slice of the milvus SDK the precedent index uses.
type API interface {
	HasCollection(ctx context.Context, collName string) (bool, error)
	CreateCollection(ctx context.Context, collSchema *entity.Schema, shardNum int32, opts ...client.CreateCollectionOption) error
	CreateIndex(ctx context.Context, collName string, fieldName string, idx entity.Index, async bool, opts ...client.IndexOption) error
	LoadCollection(ctx context.Context, collName string, async bool, opts ...client.LoadCollectionOption) error
	Insert(ctx context.Context, collName string, partitionName string, columns ...entity.Column) (entity.Column, error)
	Flush(ctx context.Context, collName string, async bool, opts ...client.FlushOption) error
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string, vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int, sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	Close() error
}

// Client owns the milvus connection and the configured collection name.
type Client struct {
	api          API
	collection   string
	embeddingDim int
	logger       logging.Logger
}

// NewClient connects to milvus and ensures the precedent collection exists
// and is loaded.
func NewClient(ctx context.Context, cfg config.MilvusConfig, log logging.Logger) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	api, err := milvusNewClient(connectCtx, client.Config{
		Address: cfg.Addr,
		DBName:  cfg.DBName,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePrecedentIndexDown, "failed to connect to milvus")
	}

	c := &Client{
		api:          api,
		collection:   cfg.Collection,
		embeddingDim: cfg.EmbeddingDim,
		logger:       log,
	}
	if err := c.EnsureCollection(ctx); err != nil {
		api.Close()
		return nil, err
	}

	log.Info("milvus client connected",
		logging.String("addr", cfg.Addr),
		logging.String("collection", cfg.Collection),
	)
	return c, nil
}

// NewClientWithAPI wraps a pre-built API. Used by tests.
func NewClientWithAPI(api API, collection string, embeddingDim int, log logging.Logger) *Client {
	return &Client{api: api, collection: collection, embeddingDim: embeddingDim, logger: log}
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.api.Close()
}
