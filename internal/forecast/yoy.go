package forecast

import (
	"context"
	"time"

	"github.com/christianminimart/backend/internal/domain"
)

const (
	yoyDefaultWindowDays = 14
	yoyMinCleanDays      = 5
)

// YoYEstimator derives a year-over-year growth ratio by comparing the clean
// average of the current window against the same calendar period one year
// prior.
type YoYEstimator struct {
	history *HistoryProvider
}

func NewYoYEstimator(history *HistoryProvider) *YoYEstimator {
	return &YoYEstimator{history: history}
}

// GrowthRatio returns (thisYearCleanAvg / lastYearCleanAvg, true) when both
// windows have at least 5 clean days and the year-ago average is non-zero;
// otherwise (1.0, false). Degenerate denominators are not an error: the
// forecast simply proceeds without a growth adjustment. Callers are expected
// to clamp the ratio they apply.
func (e *YoYEstimator) GrowthRatio(ctx context.Context, product *domain.Product, target time.Time, windowDays int) (float64, bool, error) {
	if windowDays <= 0 {
		windowDays = yoyDefaultWindowDays
	}

	// Current window ends at the target date.
	curStart := target.AddDate(0, 0, -(windowDays - 1))
	curPoints, err := e.history.History(ctx, product, curStart, target)
	if err != nil {
		return 1.0, false, err
	}

	// Year-ago window is symmetric around the same calendar date last year.
	anchor := target.AddDate(-1, 0, 0)
	half := windowDays / 2
	prevPoints, err := e.history.History(ctx, product, anchor.AddDate(0, 0, -half), anchor.AddDate(0, 0, half))
	if err != nil {
		return 1.0, false, err
	}

	curAvg, curClean := cleanAverage(curPoints)
	prevAvg, prevClean := cleanAverage(prevPoints)

	if curClean < yoyMinCleanDays || prevClean < yoyMinCleanDays || prevAvg == 0 {
		return 1.0, false, nil
	}

	return curAvg / prevAvg, true, nil
}

func cleanAverage(points []domain.DailySalesPoint) (avg float64, cleanDays int) {
	var sum int
	for _, pt := range points {
		if pt.IsEventDay {
			continue
		}
		sum += pt.QuantitySold
		cleanDays++
	}
	if cleanDays == 0 {
		return 0, 0
	}
	return float64(sum) / float64(cleanDays), cleanDays
}
