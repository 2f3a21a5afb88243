package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
)

// EventResolver determines which promotional/seasonal events apply to a
// product on a given date.
type EventResolver struct {
	events repository.EventRepository
}

func NewEventResolver(events repository.EventRepository) *EventResolver {
	return &EventResolver{events: events}
}

// ActiveEvents returns the events whose window covers date and whose scope
// (product, category, or brand) applies to the product.
func (r *EventResolver) ActiveEvents(ctx context.Context, product *domain.Product, date time.Time) ([]domain.Event, error) {
	overlapping, err := r.events.ListOverlapping(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active events: %w", err)
	}

	var active []domain.Event
	for _, e := range overlapping {
		if e.Covers(product, date) {
			active = append(active, e)
		}
	}

	return active, nil
}

// EventsByDay resolves active events for the product across an inclusive
// date range with a single repository read, keyed by calendar day. Used by
// the history fallback path to tag raw rollup days.
func (r *EventResolver) EventsByDay(ctx context.Context, product *domain.Product, start, end time.Time) (map[string][]domain.Event, error) {
	overlapping, err := r.events.ListOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve events for range: %w", err)
	}

	byDay := make(map[string][]domain.Event)
	for day := start.Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, e := range overlapping {
			if e.Covers(product, day) {
				byDay[dayKey(day)] = append(byDay[dayKey(day)], e)
			}
		}
	}

	return byDay, nil
}

// MaxMultiplier returns the strongest demand multiplier among the events,
// or 1.0 when none apply.
func MaxMultiplier(events []domain.Event) float64 {
	factor := 1.0
	for _, e := range events {
		if e.Multiplier > factor {
			factor = e.Multiplier
		}
	}
	return factor
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
