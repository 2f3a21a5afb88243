// internal/repository/postgres/event_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Event, error) {
	query := `
		SELECT
			id, name, source, multiplier, start_date, end_date,
			product_id, category, brand
		FROM events
		WHERE start_date <= $2::date
		  AND end_date >= $1::date
		ORDER BY start_date, id
	`

	var events []domain.Event
	if err := r.db.SelectContext(ctx, &events, query, start, end); err != nil {
		return nil, fmt.Errorf("error listing events overlapping [%s, %s]: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}

	return events, nil
}
