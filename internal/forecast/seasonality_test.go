package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonalityFactor(t *testing.T) {
	cfg := DefaultSeasonalityConfig()

	tests := []struct {
		name     string
		date     time.Time
		category string
		want     float64
	}{
		{
			name:     "plain weekday in march",
			date:     time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), // Tuesday
			category: "SNACKS",
			want:     1.0,
		},
		{
			name:     "december weekday",
			date:     time.Date(2026, time.December, 16, 0, 0, 0, 0, time.UTC), // Wednesday
			category: "SNACKS",
			want:     1.5,
		},
		{
			name:     "november weekday",
			date:     time.Date(2026, time.November, 18, 0, 0, 0, 0, time.UTC), // Wednesday
			category: "SNACKS",
			want:     1.2,
		},
		{
			name:     "summer beverage",
			date:     time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC), // Wednesday
			category: "BEVERAGES",
			want:     1.4,
		},
		{
			name:     "summer soda",
			date:     time.Date(2026, time.May, 13, 0, 0, 0, 0, time.UTC), // Wednesday
			category: "SODA",
			want:     1.4,
		},
		{
			name:     "summer non-beverage",
			date:     time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
			category: "CANNED_GOODS",
			want:     1.0,
		},
		{
			name:     "weekend only",
			date:     time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), // Saturday
			category: "SNACKS",
			want:     1.25,
		},
		{
			name:     "december weekend compounds",
			date:     time.Date(2026, time.December, 19, 0, 0, 0, 0, time.UTC), // Saturday
			category: "SNACKS",
			want:     1.5 * 1.25,
		},
		{
			name:     "summer beverage weekend compounds",
			date:     time.Date(2026, time.April, 18, 0, 0, 0, 0, time.UTC), // Saturday
			category: "BEVERAGES",
			want:     1.4 * 1.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cfg.Factor(tt.date, tt.category), 1e-9)
		})
	}
}

func TestSeasonalityFactorNeverBelowOne(t *testing.T) {
	cfg := DefaultSeasonalityConfig()
	day := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		assert.GreaterOrEqual(t, cfg.Factor(day.AddDate(0, 0, i), "SNACKS"), 1.0)
	}
}
