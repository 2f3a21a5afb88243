package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/config"
	"github.com/christianminimart/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const forecastKeyPrefix = "forecast:product"

// ForecastCache caches computed forecast results. Forecasts are recomputed
// on demand, so a short TTL keeps report pages cheap without staleness risk.
type ForecastCache interface {
	Get(ctx context.Context, input domain.ForecastInput) (*domain.ForecastResult, bool, error)
	Set(ctx context.Context, input domain.ForecastInput, result *domain.ForecastResult) error
	Invalidate(ctx context.Context, productID int64) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, input domain.ForecastInput) (*domain.ForecastResult, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(input)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ForecastResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, input domain.ForecastInput, result *domain.ForecastResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(input), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) Invalidate(ctx context.Context, productID int64) error {
	prefix := fmt.Sprintf("%s:%d:", forecastKeyPrefix, productID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, 100)
}

func (n *noopForecastCache) Get(ctx context.Context, input domain.ForecastInput) (*domain.ForecastResult, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, input domain.ForecastInput, result *domain.ForecastResult) error {
	return nil
}

func (n *noopForecastCache) Invalidate(ctx context.Context, productID int64) error {
	return nil
}

func buildForecastKey(input domain.ForecastInput) string {
	return fmt.Sprintf("%s:%d:%s:%d:%t",
		forecastKeyPrefix,
		input.ProductID,
		input.ForecastDate.Format("2006-01-02"),
		input.LookbackDays,
		input.IncludeEventAdjustment,
	)
}
