// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product with its inventory snapshot
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Barcode      string          `json:"barcode" db:"barcode"`
	Name         string          `json:"name" db:"name"`
	Brand        string          `json:"brand" db:"brand"`
	Category     string          `json:"category" db:"category"`
	CostPrice    decimal.Decimal `json:"cost_price" db:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price" db:"retail_price"`
	CurrentStock int             `json:"current_stock" db:"current_stock"`
	ReorderLevel int             `json:"reorder_level" db:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// DailySalesPoint is one pre-aggregated day of sales for a product.
// At most one row exists per (product, date); the aggregation job owns the
// write path and the forecasting engine only reads it.
type DailySalesPoint struct {
	ProductID    int64           `json:"product_id" db:"product_id"`
	Date         time.Time       `json:"date" db:"date"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue" db:"revenue"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
	IsEventDay   bool            `json:"is_event_day" db:"is_event_day"`
	EventSource  *EventSource    `json:"event_source,omitempty" db:"event_source"`
	EventID      *int64          `json:"event_id,omitempty" db:"event_id"`
}

// Event is a promotional or seasonal demand event. Scope is one of: a single
// product, a whole category, or a brand; unset scope fields mean "any".
type Event struct {
	ID         int64       `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Source     EventSource `json:"source" db:"source"`
	Multiplier float64     `json:"multiplier" db:"multiplier"`
	StartDate  time.Time   `json:"start_date" db:"start_date"`
	EndDate    time.Time   `json:"end_date" db:"end_date"`
	ProductID  *int64      `json:"product_id,omitempty" db:"product_id"`
	Category   *string     `json:"category,omitempty" db:"category"`
	Brand      *string     `json:"brand,omitempty" db:"brand"`
}

// Covers reports whether the event window includes the date and the event's
// scope applies to the product.
func (e Event) Covers(p *Product, date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(e.StartDate.Truncate(24*time.Hour)) || day.After(e.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	if e.ProductID != nil {
		return p != nil && *e.ProductID == p.ID
	}
	if e.Category != nil {
		return p != nil && *e.Category == p.Category
	}
	if e.Brand != nil {
		return p != nil && *e.Brand == p.Brand
	}
	return true
}

// ForecastInput is the per-call request for a single product forecast
type ForecastInput struct {
	ProductID              int64     `json:"product_id"`
	ForecastDate           time.Time `json:"forecast_date"`
	LookbackDays           int       `json:"lookback_days"`
	IncludeEventAdjustment bool      `json:"include_event_adjustment"`
}

// ForecastResult is the engine's sole output. It is recomputed on demand and
// never persisted. ForecastedWeeklyUnits is always ForecastedDailyUnits * 7.
type ForecastResult struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	UnitCost    decimal.Decimal `json:"unit_cost"`

	ForecastedDailyUnits  int `json:"forecasted_daily_units"`
	ForecastedWeeklyUnits int `json:"forecasted_weekly_units"`
	SuggestedReorderQty   int `json:"suggested_reorder_qty"`

	Confidence      Confidence `json:"confidence"`
	Trend           Trend      `json:"trend"`
	TotalDataPoints int        `json:"total_data_points"`
	CleanDataPoints int        `json:"clean_data_points"`

	SeasonalityFactor float64 `json:"seasonality_factor"`
	GrowthFactor      float64 `json:"growth_factor"`
	EventFactor       float64 `json:"event_factor"`
	ActiveEvents      []Event `json:"active_events"`

	CurrentStock int         `json:"current_stock"`
	ReorderLevel int         `json:"reorder_level"`
	StockStatus  StockStatus `json:"stock_status"`
	DaysOfStock  int         `json:"days_of_stock"`

	ForecastDate time.Time `json:"forecast_date"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SaleItemRollup is one product's summed completed sales for a single day,
// produced by grouping raw sale line items.
type SaleItemRollup struct {
	ProductID    int64           `json:"product_id" db:"product_id"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue" db:"revenue"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
}
