// internal/repository/postgres/aggregation_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

// aggregationLockClass namespaces the advisory lock keys used to serialize
// aggregation runs per day.
const aggregationLockClass = 7401

type aggregationRepository struct {
	db *DB

	// lockConn pins the advisory lock to a single session; pool connections
	// cannot be trusted to route the unlock back to the locking session.
	// Unsynchronized: the repository follows the Job's one-run-at-a-time
	// contract. Concurrent runs need separate repository instances.
	lockConn *sqlx.Conn
}

func NewAggregationRepository(db *DB) repository.AggregationRepository {
	return &aggregationRepository{db: db}
}

func (r *aggregationRepository) GetCompletedSaleRollups(ctx context.Context, day time.Time) ([]domain.SaleItemRollup, error) {
	query := `
		SELECT
			si.product_id,
			SUM(si.quantity)::int AS quantity_sold,
			SUM(si.quantity * si.unit_price) AS revenue,
			SUM(si.quantity * si.unit_cost) AS cost
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 'COMPLETED'
		  AND s.completed_at >= $1::date
		  AND s.completed_at < ($1::date + interval '1 day')
		GROUP BY si.product_id
		ORDER BY si.product_id
	`

	var rollups []domain.SaleItemRollup
	if err := r.db.SelectContext(ctx, &rollups, query, day); err != nil {
		return nil, fmt.Errorf("error rolling up completed sales for %s: %w",
			day.Format("2006-01-02"), err)
	}

	return rollups, nil
}

func (r *aggregationRepository) UpsertDayPoints(ctx context.Context, points []domain.DailySalesPoint) error {
	if len(points) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_product_sales (
			product_id, date, quantity_sold, revenue, cost,
			is_event_day, event_source, event_id, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (product_id, date) DO UPDATE SET
			quantity_sold = EXCLUDED.quantity_sold,
			revenue = EXCLUDED.revenue,
			cost = EXCLUDED.cost,
			is_event_day = EXCLUDED.is_event_day,
			event_source = EXCLUDED.event_source,
			event_id = EXCLUDED.event_id,
			updated_at = NOW()
	`

	// One transaction per day so a failed run cannot leave a half-written day.
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, point := range points {
			_, err := tx.ExecContext(ctx, query,
				point.ProductID,
				point.Date,
				point.QuantitySold,
				point.Revenue,
				point.Cost,
				point.IsEventDay,
				point.EventSource,
				point.EventID,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert daily sales point (%d, %s): %w",
					point.ProductID, point.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
}

func (r *aggregationRepository) TryLockDay(ctx context.Context, day time.Time) (bool, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return false, fmt.Errorf("error opening lock connection: %w", err)
	}

	var acquired bool
	err = conn.GetContext(ctx, &acquired,
		`SELECT pg_try_advisory_lock($1, $2)`, aggregationLockClass, dayLockKey(day))
	if err != nil {
		conn.Close()
		return false, fmt.Errorf("error acquiring day lock: %w", err)
	}

	if !acquired {
		conn.Close()
		return false, nil
	}

	r.lockConn = conn

	return true, nil
}

func (r *aggregationRepository) UnlockDay(ctx context.Context, day time.Time) error {
	if r.lockConn == nil {
		return nil
	}
	defer func() {
		r.lockConn.Close()
		r.lockConn = nil
	}()

	var released bool
	err := r.lockConn.GetContext(ctx, &released,
		`SELECT pg_advisory_unlock($1, $2)`, aggregationLockClass, dayLockKey(day))
	if err != nil {
		return fmt.Errorf("error releasing day lock: %w", err)
	}

	return nil
}

// dayLockKey folds a calendar day into a 32-bit advisory lock key.
func dayLockKey(day time.Time) int32 {
	y, m, d := day.Date()
	return int32(y*10000 + int(m)*100 + d)
}
