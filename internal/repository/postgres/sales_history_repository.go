// internal/repository/postgres/sales_history_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type salesHistoryRepository struct {
	db *sqlx.DB
}

func NewSalesHistoryRepository(db *sqlx.DB) repository.SalesHistoryRepository {
	return &salesHistoryRepository{db: db}
}

func (r *salesHistoryRepository) GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error) {
	query := `
		SELECT
			product_id, date, quantity_sold, revenue, cost,
			is_event_day, event_source, event_id
		FROM daily_product_sales
		WHERE product_id = $1
		  AND date >= $2::date
		  AND date <= $3::date
		ORDER BY date
	`

	var points []domain.DailySalesPoint
	if err := r.db.SelectContext(ctx, &points, query, productID, start, end); err != nil {
		return nil, fmt.Errorf("error getting daily sales for product %d: %w", productID, err)
	}

	return points, nil
}

func (r *salesHistoryRepository) GetRawDailyRollup(ctx context.Context, productID int64, start, end time.Time) ([]domain.DailySalesPoint, error) {
	query := `
		SELECT
			si.product_id,
			date_trunc('day', s.completed_at)::date AS date,
			SUM(si.quantity)::int AS quantity_sold,
			SUM(si.quantity * si.unit_price) AS revenue,
			SUM(si.quantity * si.unit_cost) AS cost
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE si.product_id = $1
		  AND s.status = 'COMPLETED'
		  AND s.completed_at >= $2::date
		  AND s.completed_at < ($3::date + interval '1 day')
		GROUP BY si.product_id, date_trunc('day', s.completed_at)
		ORDER BY date
	`

	var points []domain.DailySalesPoint
	if err := r.db.SelectContext(ctx, &points, query, productID, start, end); err != nil {
		return nil, fmt.Errorf("error rolling up raw sales for product %d: %w", productID, err)
	}

	return points, nil
}
