package forecast

import (
	"math"

	"github.com/christianminimart/backend/internal/domain"
)

// daysOfStockSentinel stands in for "effectively infinite" days of supply
// when the forecasted velocity is below the dead-stock threshold.
const daysOfStockSentinel = 9999

// ClassifyStockStatus maps the current inventory position and forecasted
// daily velocity to a health state, and derives days of stock remaining.
//
// DEAD_STOCK is evaluated before CRITICAL/LOW on purpose: an item nobody buys
// is not an urgent restock candidate no matter how little of it is on hand.
func ClassifyStockStatus(currentStock, reorderLevel int, velocity, deadStockVelocity float64) (domain.StockStatus, int) {
	if currentStock <= 0 {
		return domain.StockStatusOutOfStock, 0
	}

	if velocity < deadStockVelocity {
		return domain.StockStatusDeadStock, daysOfStockSentinel
	}

	daysOfStock := int(math.Floor(float64(currentStock) / velocity))

	switch {
	case float64(currentStock) <= float64(reorderLevel)*0.5:
		return domain.StockStatusCritical, daysOfStock
	case currentStock <= reorderLevel:
		return domain.StockStatusLow, daysOfStock
	default:
		return domain.StockStatusHealthy, daysOfStock
	}
}
