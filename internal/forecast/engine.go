// internal/forecast/engine.go
package forecast

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config carries the engine's business constants. Values come from the
// application config; the defaults there are calibrated and should not be
// changed without a domain owner signing off.
type Config struct {
	DefaultLookbackDays int
	TargetCoverageDays  int
	ReorderHardCap      int
	DeadStockVelocity   float64
	GrowthFactorCap     float64
	BatchConcurrency    int
	BatchItemTimeout    time.Duration
}

// DefaultConfig returns the engine constants the rest of the system was
// calibrated against.
func DefaultConfig() Config {
	return Config{
		DefaultLookbackDays: 30,
		TargetCoverageDays:  14,
		ReorderHardCap:      200,
		DeadStockVelocity:   0.1,
		GrowthFactorCap:     1.5,
		BatchConcurrency:    8,
		BatchItemTimeout:    10 * time.Second,
	}
}

// Engine composes the history provider, event resolver, and the statistical
// calculators into per-product demand forecasts. It owns no durable state;
// every forecast is recomputed from the underlying store.
type Engine struct {
	products    repository.ProductRepository
	history     *HistoryProvider
	resolver    *EventResolver
	yoy         *YoYEstimator
	seasonality SeasonalityConfig
	cfg         Config
}

func NewEngine(
	products repository.ProductRepository,
	history *HistoryProvider,
	resolver *EventResolver,
	seasonality SeasonalityConfig,
	cfg Config,
) *Engine {
	if cfg.DefaultLookbackDays <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		products:    products,
		history:     history,
		resolver:    resolver,
		yoy:         NewYoYEstimator(history),
		seasonality: seasonality,
		cfg:         cfg,
	}
}

// Forecast produces the demand forecast for a single product. It returns
// domain.ErrProductNotFound for an unknown product; every other data gap
// degrades the result (lower confidence, neutral factors) instead of failing.
func (e *Engine) Forecast(ctx context.Context, input domain.ForecastInput) (*domain.ForecastResult, error) {
	input = e.normalize(input)

	product, err := e.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	end := input.ForecastDate
	start := end.AddDate(0, 0, -(input.LookbackDays - 1))
	points, err := e.history.History(ctx, product, start, end)
	if err != nil {
		return nil, err
	}

	clean, _ := SplitClean(points)

	// Baseline velocity from clean days only, most recent first.
	baseline := WeightedMovingAverage(reverse(clean), input.LookbackDays)

	growth := 1.0
	yoyAvailable := false
	if baseline > 0 {
		growth, yoyAvailable, err = e.yoy.GrowthRatio(ctx, product, input.ForecastDate, yoyDefaultWindowDays)
		if err != nil {
			return nil, err
		}
		growth = math.Min(growth, e.cfg.GrowthFactorCap)
	}

	seasonalityFactor := e.seasonality.Factor(input.ForecastDate, product.Category)

	eventFactor := 1.0
	var activeEvents []domain.Event
	if input.IncludeEventAdjustment {
		activeEvents, err = e.resolver.ActiveEvents(ctx, product, input.ForecastDate)
		if err != nil {
			return nil, err
		}
		eventFactor = MaxMultiplier(activeEvents)
	}

	dailyUnits := int(math.Round(baseline * seasonalityFactor * growth * eventFactor))
	velocity := float64(dailyUnits)

	status, daysOfStock := ClassifyStockStatus(
		product.CurrentStock, product.ReorderLevel, velocity, e.cfg.DeadStockVelocity)

	reorderQty := SuggestReorderQty(
		velocity, product.CurrentStock, product.ReorderLevel,
		e.cfg.TargetCoverageDays, e.cfg.ReorderHardCap, e.cfg.DeadStockVelocity)

	if activeEvents == nil {
		activeEvents = []domain.Event{}
	}

	return &domain.ForecastResult{
		ProductID:             product.ID,
		ProductName:           product.Name,
		Category:              product.Category,
		UnitCost:              product.CostPrice,
		ForecastedDailyUnits:  dailyUnits,
		ForecastedWeeklyUnits: dailyUnits * 7,
		SuggestedReorderQty:   reorderQty,
		Confidence:            ClassifyConfidence(len(clean), yoyAvailable),
		Trend:                 ClassifyTrend(clean),
		TotalDataPoints:       len(points),
		CleanDataPoints:       len(clean),
		SeasonalityFactor:     seasonalityFactor,
		GrowthFactor:          growth,
		EventFactor:           eventFactor,
		ActiveEvents:          activeEvents,
		CurrentStock:          product.CurrentStock,
		ReorderLevel:          product.ReorderLevel,
		StockStatus:           status,
		DaysOfStock:           daysOfStock,
		ForecastDate:          input.ForecastDate,
		GeneratedAt:           time.Now().UTC(),
	}, nil
}

// ForecastBatch runs independent single-product forecasts for each id with a
// bounded fan-out and a per-item timeout. A failed item (unknown product,
// slow query) is logged and omitted; it never aborts the batch. Result order
// is not guaranteed to match the input order.
func (e *Engine) ForecastBatch(ctx context.Context, date time.Time, productIDs []int64) ([]domain.ForecastResult, error) {
	results := make([]domain.ForecastResult, 0, len(productIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.BatchConcurrency)

	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, e.cfg.BatchItemTimeout)
			defer cancel()

			result, err := e.Forecast(itemCtx, domain.ForecastInput{
				ProductID:              id,
				ForecastDate:           date,
				IncludeEventAdjustment: true,
			})
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, context.DeadlineExceeded) {
					log.Warn().Err(err).Int64("product_id", id).Msg("batch forecast: skipping product")
					return nil
				}
				// Batch context cancelled: nothing useful left to do.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Int64("product_id", id).Msg("batch forecast: skipping product")
				return nil
			}

			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Engine) normalize(input domain.ForecastInput) domain.ForecastInput {
	if input.ForecastDate.IsZero() {
		input.ForecastDate = time.Now()
	}
	input.ForecastDate = input.ForecastDate.Truncate(24 * time.Hour)
	if input.LookbackDays <= 0 {
		input.LookbackDays = e.cfg.DefaultLookbackDays
	}
	return input
}

func reverse(values []int) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}
