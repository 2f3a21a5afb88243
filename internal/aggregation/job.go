// internal/aggregation/job.go
package aggregation

import (
	"context"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/cache"
	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// Job rolls raw completed sales into the per-day series consumed by the
// forecasting engine. It is idempotent per (product, day): re-running after
// corrections overwrites the day's points instead of duplicating them.
// Runs are sequential; a Job instance must not be shared across goroutines.
type Job struct {
	products repository.ProductRepository
	events   repository.EventRepository
	repo     repository.AggregationRepository
	cache    cache.ForecastCache
}

// Summary reports what a single run did.
type Summary struct {
	Day             time.Time `json:"day"`
	ProductsRolled  int       `json:"products_rolled"`
	EventTaggedDays int       `json:"event_tagged_days"`
	Duration        string    `json:"duration"`
}

func NewJob(
	products repository.ProductRepository,
	events repository.EventRepository,
	repo repository.AggregationRepository,
	forecastCache cache.ForecastCache,
) *Job {
	if forecastCache == nil {
		forecastCache = cache.NewNoopForecastCache()
	}
	return &Job{products: products, events: events, repo: repo, cache: forecastCache}
}

// Run aggregates one calendar day. The day is acquired as a unit of work via
// an advisory lock so two concurrent runs cannot race on the same date.
func (j *Job) Run(ctx context.Context, day time.Time) (*Summary, error) {
	day = day.Truncate(24 * time.Hour)
	start := time.Now()

	acquired, err := j.repo.TryLockDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("aggregation for %s is already running", day.Format("2006-01-02"))
	}
	defer func() {
		if err := j.repo.UnlockDay(ctx, day); err != nil {
			log.Error().Err(err).Msg("aggregation: failed to release day lock")
		}
	}()

	rollups, err := j.repo.GetCompletedSaleRollups(ctx, day)
	if err != nil {
		return nil, err
	}

	events, err := j.events.ListOverlapping(ctx, day, day)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Day: day}
	points := make([]domain.DailySalesPoint, 0, len(rollups))
	for _, rollup := range rollups {
		point := domain.DailySalesPoint{
			ProductID:    rollup.ProductID,
			Date:         day,
			QuantitySold: rollup.QuantitySold,
			Revenue:      rollup.Revenue,
			Cost:         rollup.Cost,
		}

		if tagged := j.tagEventDay(ctx, &point, events, day); tagged {
			summary.EventTaggedDays++
		}

		points = append(points, point)
	}

	// The whole day lands in one write so a failed run never leaves a
	// partially aggregated date behind.
	if err := j.repo.UpsertDayPoints(ctx, points); err != nil {
		return nil, err
	}
	summary.ProductsRolled = len(points)

	// Cached forecasts for these products are built on the old series.
	for _, point := range points {
		if err := j.cache.Invalidate(ctx, point.ProductID); err != nil {
			log.Warn().Err(err).Int64("product_id", point.ProductID).Msg("aggregation: forecast cache invalidation failed")
		}
	}

	summary.Duration = time.Since(start).String()
	log.Info().
		Str("day", day.Format("2006-01-02")).
		Int("products", summary.ProductsRolled).
		Int("event_days", summary.EventTaggedDays).
		Msg("aggregation run completed")

	return summary, nil
}

// RunBackfill re-runs the job for the latest `days` calendar days ending at
// `end`. Idempotent upserts make this safe to repeat.
func (j *Job) RunBackfill(ctx context.Context, end time.Time, days int) ([]Summary, error) {
	if days < 1 {
		days = 1
	}

	summaries := make([]Summary, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		summary, err := j.Run(ctx, day)
		if err != nil {
			return summaries, fmt.Errorf("backfill failed at %s: %w", day.Format("2006-01-02"), err)
		}
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

// tagEventDay marks the point as event-affected when any active event's
// scope covers its product, recording the strongest event as the source.
func (j *Job) tagEventDay(ctx context.Context, point *domain.DailySalesPoint, events []domain.Event, day time.Time) bool {
	if len(events) == 0 {
		return false
	}

	product, err := j.products.GetByID(ctx, point.ProductID)
	if err != nil {
		// A sale row for a product the catalog no longer knows; keep the
		// point organic rather than dropping the rollup.
		log.Warn().Err(err).Int64("product_id", point.ProductID).Msg("aggregation: product lookup failed during tagging")
		return false
	}

	var strongest *domain.Event
	for i := range events {
		if !events[i].Covers(product, day) {
			continue
		}
		if strongest == nil || events[i].Multiplier > strongest.Multiplier {
			strongest = &events[i]
		}
	}
	if strongest == nil {
		return false
	}

	point.IsEventDay = true
	point.EventSource = &strongest.Source
	id := strongest.ID
	point.EventID = &id

	return true
}
