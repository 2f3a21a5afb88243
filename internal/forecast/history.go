package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// HistoryProvider resolves the clean per-day sales series for a product over
// a date window. It prefers the pre-aggregated daily series maintained by the
// aggregation job and falls back to rolling up raw completed sale line items,
// tagging event days on the fly.
//
// A calendar day absent from the series means "no recorded activity": the
// series is sparse, and averaging happens over observed points only.
type HistoryProvider struct {
	sales    repository.SalesHistoryRepository
	resolver *EventResolver
}

func NewHistoryProvider(sales repository.SalesHistoryRepository, resolver *EventResolver) *HistoryProvider {
	return &HistoryProvider{sales: sales, resolver: resolver}
}

// History returns the ordered (oldest first) daily sales points for the
// product between start and end inclusive. An unknown product yields an
// empty series, not an error; the caller decides how to degrade.
func (p *HistoryProvider) History(ctx context.Context, product *domain.Product, start, end time.Time) ([]domain.DailySalesPoint, error) {
	points, err := p.sales.GetDailySales(ctx, product.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily sales: %w", err)
	}
	if len(points) > 0 {
		return points, nil
	}

	// Aggregation may not have run yet for this product; fall back to the
	// raw line items and tag event days ourselves.
	raw, err := p.sales.GetRawDailyRollup(ctx, product.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to roll up raw sales: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	log.Debug().
		Int64("product_id", product.ID).
		Int("days", len(raw)).
		Msg("sales history: using raw rollup fallback")

	eventsByDay, err := p.resolver.EventsByDay(ctx, product, start, end)
	if err != nil {
		return nil, err
	}

	for i := range raw {
		active := eventsByDay[dayKey(raw[i].Date)]
		if len(active) == 0 {
			continue
		}
		strongest := active[0]
		for _, e := range active[1:] {
			if e.Multiplier > strongest.Multiplier {
				strongest = e
			}
		}
		raw[i].IsEventDay = true
		raw[i].EventSource = &strongest.Source
		id := strongest.ID
		raw[i].EventID = &id
	}

	return raw, nil
}

// SplitClean partitions a series into clean (organic) and event-affected
// daily quantities, both ordered oldest first.
func SplitClean(points []domain.DailySalesPoint) (clean, event []int) {
	for _, pt := range points {
		if pt.IsEventDay {
			event = append(event, pt.QuantitySold)
		} else {
			clean = append(clean, pt.QuantitySold)
		}
	}
	return clean, event
}
