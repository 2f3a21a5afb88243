package forecast

import "math"

// SuggestReorderQty converts a forecasted daily velocity into a bounded
// restock quantity: enough to cover targetDays of demand plus the reorder
// buffer, minus what is already on hand, capped by what the velocity can
// plausibly absorb and by hardCap. Velocities below deadStockVelocity force
// the suggestion to zero so dead stock is never restocked.
func SuggestReorderQty(dailyUnits float64, currentStock, reorderLevel, targetDays, hardCap int, deadStockVelocity float64) int {
	if dailyUnits < deadStockVelocity {
		return 0
	}

	target := dailyUnits*float64(targetDays) + float64(reorderLevel)
	raw := math.Max(0, target-float64(currentStock))

	maxByVelocity := math.Ceil(dailyUnits * float64(targetDays))

	qty := math.Min(raw, maxByVelocity)
	qty = math.Min(qty, float64(hardCap))

	return int(math.Round(qty))
}
