package forecast

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christianminimart/backend/internal/domain"
)

// In-memory repositories. The engine only ever reads, so plain maps and
// slices filtered per call are enough.

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListReorderCandidates(_ context.Context) ([]int64, error) {
	var ids []int64
	for id, p := range r.products {
		if p.ReorderLevel > 0 && p.CurrentStock <= p.ReorderLevel {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeSalesRepo struct {
	points []domain.DailySalesPoint
	raw    []domain.DailySalesPoint
}

func filterRange(points []domain.DailySalesPoint, productID int64, start, end time.Time) []domain.DailySalesPoint {
	var out []domain.DailySalesPoint
	for _, pt := range points {
		if pt.ProductID != productID || pt.Date.Before(start) || pt.Date.After(end) {
			continue
		}
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *fakeSalesRepo) GetDailySales(_ context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error) {
	return filterRange(r.points, productID, start, end), nil
}

func (r *fakeSalesRepo) GetRawDailyRollup(_ context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error) {
	return filterRange(r.raw, productID, start, end), nil
}

type fakeEventRepo struct {
	events []domain.Event
}

func (r *fakeEventRepo) ListOverlapping(_ context.Context, start, end time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		if e.StartDate.After(end) || e.EndDate.Before(start) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// cleanDays generates qty-per-day points for the `days` calendar days ending
// at end, inclusive.
func cleanDays(productID int64, end time.Time, days, qty int) []domain.DailySalesPoint {
	points := make([]domain.DailySalesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, domain.DailySalesPoint{
			ProductID:    productID,
			Date:         end.AddDate(0, 0, -i),
			QuantitySold: qty,
		})
	}
	return points
}

func newTestEngine(products *fakeProductRepo, sales *fakeSalesRepo, events *fakeEventRepo) *Engine {
	resolver := NewEventResolver(events)
	history := NewHistoryProvider(sales, resolver)
	return NewEngine(products, history, resolver, DefaultSeasonalityConfig(), DefaultConfig())
}

func snackProduct(id int64, stock, reorderLevel int) *domain.Product {
	return &domain.Product{
		ID:           id,
		Barcode:      "4800000000017",
		Name:         "Choco Crunch 30g",
		Brand:        "Nutri Foods",
		Category:     "SNACKS",
		CostPrice:    decimal.NewFromFloat(8.50),
		RetailPrice:  decimal.NewFromFloat(12.00),
		CurrentStock: stock,
		ReorderLevel: reorderLevel,
	}
}

func TestForecastSteadySeller(t *testing.T) {
	forecastDate := day(2026, time.March, 10) // Tuesday
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		1: snackProduct(1, 5, 15),
	}}
	sales := &fakeSalesRepo{points: cleanDays(1, forecastDate, 21, 10)}
	engine := newTestEngine(products, sales, &fakeEventRepo{})

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:    1,
		ForecastDate: forecastDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.ForecastedDailyUnits)
	assert.Equal(t, 70, result.ForecastedWeeklyUnits)
	assert.Equal(t, 21, result.TotalDataPoints)
	assert.Equal(t, 21, result.CleanDataPoints)
	assert.InDelta(t, 1.0, result.SeasonalityFactor, 1e-9)
	assert.InDelta(t, 1.0, result.GrowthFactor, 1e-9)
	assert.InDelta(t, 1.0, result.EventFactor, 1e-9)
	assert.Equal(t, domain.TrendStable, result.Trend)
	// 21 clean days but no year-ago history, so never HIGH.
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
	assert.Equal(t, domain.StockStatusCritical, result.StockStatus)
	assert.Equal(t, 0, result.DaysOfStock)
	// Shortfall is 150 but fourteen days of demand caps it at 140.
	assert.Equal(t, 140, result.SuggestedReorderQty)
	assert.NotNil(t, result.ActiveEvents)
	assert.Empty(t, result.ActiveEvents)
}

func TestForecastDeadStock(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		2: snackProduct(2, 50, 10),
	}}
	engine := newTestEngine(products, &fakeSalesRepo{}, &fakeEventRepo{})

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:    2,
		ForecastDate: day(2026, time.March, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.ForecastedDailyUnits)
	assert.Equal(t, 0, result.ForecastedWeeklyUnits)
	assert.Equal(t, 0, result.SuggestedReorderQty)
	assert.Equal(t, domain.StockStatusDeadStock, result.StockStatus)
	assert.Equal(t, 9999, result.DaysOfStock)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.InDelta(t, 1.0, result.GrowthFactor, 1e-9)
}

func TestForecastEventUplift(t *testing.T) {
	forecastDate := day(2026, time.March, 11) // Wednesday
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		3: snackProduct(3, 60, 10),
	}}
	// History stops the day before the forecast so the event touches only the
	// forecasted day.
	sales := &fakeSalesRepo{points: cleanDays(3, forecastDate.AddDate(0, 0, -1), 14, 5)}
	category := "SNACKS"
	events := &fakeEventRepo{events: []domain.Event{{
		ID:         41,
		Name:       "Nutri Foods TV Campaign",
		Source:     domain.EventSourceManufacturerAd,
		Multiplier: 2.0,
		StartDate:  forecastDate,
		EndDate:    forecastDate,
		Category:   &category,
	}}}
	engine := newTestEngine(products, sales, events)

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:              3,
		ForecastDate:           forecastDate,
		IncludeEventAdjustment: true,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, result.EventFactor, 1e-9)
	require.Len(t, result.ActiveEvents, 1)
	assert.Equal(t, int64(41), result.ActiveEvents[0].ID)
	assert.Equal(t, 10, result.ForecastedDailyUnits)
	assert.Equal(t, 70, result.ForecastedWeeklyUnits)
	assert.Equal(t, 14, result.CleanDataPoints)
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
}

func TestForecastEventAdjustmentDisabled(t *testing.T) {
	forecastDate := day(2026, time.March, 11)
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		3: snackProduct(3, 60, 10),
	}}
	sales := &fakeSalesRepo{points: cleanDays(3, forecastDate.AddDate(0, 0, -1), 14, 5)}
	category := "SNACKS"
	events := &fakeEventRepo{events: []domain.Event{{
		ID:         41,
		Source:     domain.EventSourceManufacturerAd,
		Multiplier: 2.0,
		StartDate:  forecastDate,
		EndDate:    forecastDate,
		Category:   &category,
	}}}
	engine := newTestEngine(products, sales, events)

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:    3,
		ForecastDate: forecastDate,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.EventFactor, 1e-9)
	assert.Empty(t, result.ActiveEvents)
	assert.Equal(t, 5, result.ForecastedDailyUnits)
}

func TestForecastEventDaysExcludedFromBaseline(t *testing.T) {
	forecastDate := day(2026, time.March, 10)
	points := cleanDays(4, forecastDate, 14, 4)
	// Tag the four most recent days as a promo spike.
	src := domain.EventSourceStorePromo
	for i := len(points) - 4; i < len(points); i++ {
		points[i].QuantitySold = 20
		points[i].IsEventDay = true
		points[i].EventSource = &src
	}
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		4: snackProduct(4, 100, 10),
	}}
	engine := newTestEngine(products, &fakeSalesRepo{points: points}, &fakeEventRepo{})

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:    4,
		ForecastDate: forecastDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 14, result.TotalDataPoints)
	assert.Equal(t, 10, result.CleanDataPoints)
	// The 20-unit promo days must not leak into the baseline.
	assert.Equal(t, 4, result.ForecastedDailyUnits)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
}

func TestForecastGrowthCapped(t *testing.T) {
	forecastDate := day(2026, time.March, 10)
	points := cleanDays(5, forecastDate, 21, 15)
	// Same window last year sold a third as much; the raw ratio of 3.0 must
	// come back clamped at 1.5.
	points = append(points, cleanDays(5, day(2025, time.March, 17), 15, 5)...)
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		5: snackProduct(5, 500, 20),
	}}
	engine := newTestEngine(products, &fakeSalesRepo{points: points}, &fakeEventRepo{})

	result, err := engine.Forecast(context.Background(), domain.ForecastInput{
		ProductID:    5,
		ForecastDate: forecastDate,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, result.GrowthFactor, 1e-9)
	assert.Equal(t, 23, result.ForecastedDailyUnits) // round(15 * 1.5)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Equal(t, domain.StockStatusHealthy, result.StockStatus)
	assert.Equal(t, 0, result.SuggestedReorderQty)
}

func TestForecastUnknownProduct(t *testing.T) {
	engine := newTestEngine(&fakeProductRepo{products: map[int64]*domain.Product{}}, &fakeSalesRepo{}, &fakeEventRepo{})

	_, err := engine.Forecast(context.Background(), domain.ForecastInput{ProductID: 99})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// slowSalesRepo blocks history reads for one product until the caller's
// context expires.
type slowSalesRepo struct {
	fakeSalesRepo
	slowProductID int64
}

func (r *slowSalesRepo) GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error) {
	if productID == r.slowProductID {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return r.fakeSalesRepo.GetDailySales(ctx, productID, start, end)
}

func TestForecastBatchSkipsTimedOutProducts(t *testing.T) {
	forecastDate := day(2026, time.March, 10)
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		1: snackProduct(1, 5, 15),
		2: snackProduct(2, 60, 10),
	}}
	sales := &slowSalesRepo{
		fakeSalesRepo: fakeSalesRepo{points: cleanDays(1, forecastDate, 21, 10)},
		slowProductID: 2,
	}
	resolver := NewEventResolver(&fakeEventRepo{})
	history := NewHistoryProvider(sales, resolver)
	cfg := DefaultConfig()
	cfg.BatchItemTimeout = 25 * time.Millisecond
	engine := NewEngine(products, history, resolver, DefaultSeasonalityConfig(), cfg)

	results, err := engine.ForecastBatch(context.Background(), forecastDate, []int64{1, 2})
	require.NoError(t, err)

	require.Len(t, results, 1, "the slow product is dropped, not the batch")
	assert.Equal(t, int64(1), results[0].ProductID)
	assert.Equal(t, 10, results[0].ForecastedDailyUnits)
}

func TestForecastBatchSkipsUnknownProducts(t *testing.T) {
	forecastDate := day(2026, time.March, 10)
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		1: snackProduct(1, 5, 15),
	}}
	sales := &fakeSalesRepo{points: cleanDays(1, forecastDate, 21, 10)}
	engine := newTestEngine(products, sales, &fakeEventRepo{})

	results, err := engine.ForecastBatch(context.Background(), forecastDate, []int64{1, 999, 1000})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ProductID)
	assert.Equal(t, 10, results[0].ForecastedDailyUnits)
}
