package service

import (
	"context"
	"time"

	"github.com/christianminimart/backend/internal/cache"
	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/forecast"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// ForecastService fronts the forecasting engine with a cache-aside layer.
type ForecastService struct {
	engine   *forecast.Engine
	products repository.ProductRepository
	cache    cache.ForecastCache
}

func NewForecastService(engine *forecast.Engine, products repository.ProductRepository, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{engine: engine, products: products, cache: cacheImpl}
}

// Forecast returns the forecast for a single product, serving from cache
// when a fresh result for the same input exists.
func (s *ForecastService) Forecast(ctx context.Context, input domain.ForecastInput) (*domain.ForecastResult, error) {
	if result, ok, err := s.cache.Get(ctx, input); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	result, err := s.engine.Forecast(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, input, result); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return result, nil
}

// ForecastBatch fans out forecasts for the given products. Batch results
// bypass the cache: the fan-out already bounds store load, and report pages
// always want the full fresh set.
func (s *ForecastService) ForecastBatch(ctx context.Context, date time.Time, productIDs []int64) ([]domain.ForecastResult, error) {
	return s.engine.ForecastBatch(ctx, date, productIDs)
}

// ReorderSuggestions forecasts every product currently at or below its
// reorder level and keeps the ones with a positive suggested quantity.
func (s *ForecastService) ReorderSuggestions(ctx context.Context, date time.Time) ([]domain.ForecastResult, error) {
	ids, err := s.products.ListReorderCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.ForecastResult{}, nil
	}

	results, err := s.engine.ForecastBatch(ctx, date, ids)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.ForecastResult, 0, len(results))
	for _, r := range results {
		if r.SuggestedReorderQty > 0 {
			suggestions = append(suggestions, r)
		}
	}

	return suggestions, nil
}
