package forecast

import "github.com/christianminimart/backend/internal/domain"

const (
	trendMinDataPoints   = 7
	trendChangeThreshold = 0.10

	confidenceHighCleanDays   = 21
	confidenceMediumCleanDays = 14
)

// ClassifyTrend labels the direction of a clean daily quantity series,
// ordered oldest first. Fewer than 7 points is not enough signal to call a
// direction, so the series is labeled stable.
func ClassifyTrend(quantities []int) domain.Trend {
	if len(quantities) < trendMinDataPoints {
		return domain.TrendStable
	}

	mid := len(quantities) / 2
	firstAvg := mean(quantities[:mid])
	secondAvg := mean(quantities[mid:])

	if firstAvg == 0 {
		if secondAvg > 0 {
			return domain.TrendIncreasing
		}
		return domain.TrendStable
	}

	change := (secondAvg - firstAvg) / firstAvg
	switch {
	case change > trendChangeThreshold:
		return domain.TrendIncreasing
	case change < -trendChangeThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// ClassifyConfidence derives the forecast's confidence tier from data
// sufficiency. HIGH is deliberately conservative: it requires both a long
// clean history and an available year-over-year comparison, so forecasts
// built from short or event-contaminated histories are never labeled HIGH.
func ClassifyConfidence(cleanDataPoints int, yoyAvailable bool) domain.Confidence {
	switch {
	case cleanDataPoints >= confidenceHighCleanDays && yoyAvailable:
		return domain.ConfidenceHigh
	case cleanDataPoints >= confidenceMediumCleanDays:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
