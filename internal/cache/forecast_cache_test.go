package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christianminimart/backend/internal/config"
	"github.com/christianminimart/backend/internal/domain"
)

func TestBuildForecastKey(t *testing.T) {
	key := buildForecastKey(domain.ForecastInput{
		ProductID:              42,
		ForecastDate:           time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		LookbackDays:           30,
		IncludeEventAdjustment: true,
	})

	assert.Equal(t, "forecast:product:42:2026-03-10:30:true", key)
}

func TestBuildForecastKeyVariesByInput(t *testing.T) {
	base := domain.ForecastInput{
		ProductID:    42,
		ForecastDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		LookbackDays: 30,
	}

	withEvents := base
	withEvents.IncludeEventAdjustment = true
	shorter := base
	shorter.LookbackDays = 14

	assert.NotEqual(t, buildForecastKey(base), buildForecastKey(withEvents))
	assert.NotEqual(t, buildForecastKey(base), buildForecastKey(shorter))
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	c := NewNoopForecastCache()
	input := domain.ForecastInput{ProductID: 1}

	require.NoError(t, c.Set(context.Background(), input, &domain.ForecastResult{ProductID: 1}))

	result, ok, err := c.Get(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, result)

	assert.NoError(t, c.Invalidate(context.Background(), 1))
}

func TestNewForecastCacheDisabled(t *testing.T) {
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	_, ok, err := c.Get(context.Background(), domain.ForecastInput{ProductID: 1})
	require.NoError(t, err)
	assert.False(t, ok)
}
