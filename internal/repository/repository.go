// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/christianminimart/backend/internal/domain"
)

// ProductRepository looks up catalog products and their inventory snapshot.
type ProductRepository interface {
	// GetByID returns the product or domain.ErrProductNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// ListReorderCandidates returns ids of products at or below their
	// reorder level with positive stock tracking enabled.
	ListReorderCandidates(ctx context.Context) ([]int64, error)
}

// SalesHistoryRepository reads per-day sales for a product. Both methods
// return rows ordered by date ascending; days with no recorded activity are
// absent rather than materialized as zero rows.
type SalesHistoryRepository interface {
	// GetDailySales reads the pre-aggregated series written by the
	// aggregation job.
	GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error)

	// GetRawDailyRollup sums raw completed sale line items grouped by
	// calendar day. Used as a fallback when the pre-aggregated series is
	// empty; rows carry no event tagging.
	GetRawDailyRollup(ctx context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error)
}

// EventRepository reads promotional/seasonal events.
type EventRepository interface {
	// ListOverlapping returns events whose [start_date, end_date] window
	// intersects [start, end]. Scope filtering is the caller's job.
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Event, error)
}

// AggregationRepository is the write path owned by the daily aggregation job.
type AggregationRepository interface {
	// GetCompletedSaleRollups sums completed sale line items for the given
	// calendar day, grouped by product.
	GetCompletedSaleRollups(ctx context.Context, day time.Time) ([]domain.SaleItemRollup, error)

	// UpsertDayPoints writes a day's points, keyed by (product_id, date), in
	// a single transaction: a failed run leaves the day untouched. Re-running
	// for the same day overwrites rather than duplicates.
	UpsertDayPoints(ctx context.Context, points []domain.DailySalesPoint) error

	// TryLockDay acquires an advisory lock for the day so no two
	// aggregation runs race on the same date. Returns false when another
	// run holds it.
	TryLockDay(ctx context.Context, day time.Time) (bool, error)
	UnlockDay(ctx context.Context, day time.Time) error
}
