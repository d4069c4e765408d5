package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

const (
	defaultKeyPrefix = "evidentia:"
	defaultCacheTTL  = time.Hour
)

// ResultCache caches analysis results and division predictions per case.
// A miss returns (nil, nil); only transport and decode failures error.
type ResultCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// ResultCacheOption customizes a ResultCache.
type ResultCacheOption func(*ResultCache)

func WithKeyPrefix(prefix string) ResultCacheOption {
	return func(c *ResultCache) { c.prefix = prefix }
}

func WithTTL(ttl time.Duration) ResultCacheOption {
	return func(c *ResultCache) { c.ttl = ttl }
}

// NewResultCache builds the cache on top of an established client.
func NewResultCache(client *Client, log logging.Logger, opts ...ResultCacheOption) *ResultCache {
	c := &ResultCache{
		client: client,
		logger: log,
		prefix: defaultKeyPrefix,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResultCache) analysisKey(caseID common.ID) string {
	return c.prefix + "analysis:" + string(caseID)
}

func (c *ResultCache) predictionKey(caseID common.ID) string {
	return c.prefix + "prediction:" + string(caseID)
}

func (c *ResultCache) GetAnalysis(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	var result types.AnalysisResult
	ok, err := c.get(ctx, c.analysisKey(caseID), &result)
	if err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

func (c *ResultCache) SetAnalysis(ctx context.Context, result *types.AnalysisResult) error {
	return c.set(ctx, c.analysisKey(result.CaseID), result)
}

func (c *ResultCache) GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	var pred types.DivisionPrediction
	ok, err := c.get(ctx, c.predictionKey(caseID), &pred)
	if err != nil || !ok {
		return nil, err
	}
	return &pred, nil
}

func (c *ResultCache) SetPrediction(ctx context.Context, caseID common.ID, prediction *types.DivisionPrediction) error {
	return c.set(ctx, c.predictionKey(caseID), prediction)
}

// Invalidate drops both cached artefacts for a case.
func (c *ResultCache) Invalidate(ctx context.Context, caseID common.ID) error {
	if err := c.client.RDB().Del(ctx, c.analysisKey(caseID), c.predictionKey(caseID)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to invalidate case cache")
	}
	return nil
}

func (c *ResultCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.RDB().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read from cache")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss so the caller falls back to
		// the repository; the entry is overwritten on the next write.
		c.logger.Warn("dropping undecodable cache entry", logging.String("key", key), logging.Err(err))
		return false, nil
	}
	return true, nil
}

func (c *ResultCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache entry")
	}
	if err := c.client.RDB().Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write to cache")
	}
	return nil
}
