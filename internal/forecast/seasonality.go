package forecast

import "time"

// SeasonalityConfig is the set of calendar rules applied to a baseline
// velocity. It is deploy-time configuration: changing a multiplier or a
// category list is a config change, not a data migration.
type SeasonalityConfig struct {
	DecemberMultiplier float64
	NovemberMultiplier float64
	SummerMonths       []time.Month
	BeverageCategories []string
	BeverageMultiplier float64
	WeekendMultiplier  float64
}

// DefaultSeasonalityConfig returns the calendar rules for the Philippine
// minimart: Christmas season in December, pre-Christmas November, the
// April/May summer beverage boost, and busier weekends.
func DefaultSeasonalityConfig() SeasonalityConfig {
	return SeasonalityConfig{
		DecemberMultiplier: 1.5,
		NovemberMultiplier: 1.2,
		SummerMonths:       []time.Month{time.April, time.May},
		BeverageCategories: []string{"BEVERAGES", "SODA"},
		BeverageMultiplier: 1.4,
		WeekendMultiplier:  1.25,
	}
}

// Factor returns the compounding seasonality multiplier for a date and
// product category. Every matching rule multiplies in; unknown categories
// simply skip the beverage rule. The result is always >= 1.
func (c SeasonalityConfig) Factor(date time.Time, category string) float64 {
	factor := 1.0

	switch date.Month() {
	case time.December:
		factor *= c.DecemberMultiplier
	case time.November:
		factor *= c.NovemberMultiplier
	}

	if c.isSummer(date.Month()) && c.isBeverage(category) {
		factor *= c.BeverageMultiplier
	}

	if dow := date.Weekday(); dow == time.Saturday || dow == time.Sunday {
		factor *= c.WeekendMultiplier
	}

	return factor
}

func (c SeasonalityConfig) isSummer(m time.Month) bool {
	for _, sm := range c.SummerMonths {
		if m == sm {
			return true
		}
	}
	return false
}

func (c SeasonalityConfig) isBeverage(category string) bool {
	for _, b := range c.BeverageCategories {
		if category == b {
			return true
		}
	}
	return false
}
