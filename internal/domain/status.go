package domain

import "strings"

// EventSource identifies what kind of event drove a demand spike
type EventSource string

const (
	EventSourceManufacturerAd EventSource = "MANUFACTURER_AD"
	EventSourceStorePromo     EventSource = "STORE_PROMO"
	EventSourceHoliday        EventSource = "HOLIDAY"
	EventSourceOther          EventSource = "OTHER"
)

// StockStatus is the derived health state of a product's inventory.
// It is recomputed on every forecast, never stored.
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StockStatusDeadStock  StockStatus = "DEAD_STOCK"
	StockStatusCritical   StockStatus = "CRITICAL"
	StockStatusLow        StockStatus = "LOW"
	StockStatusHealthy    StockStatus = "HEALTHY"
)

// Confidence is the forecast's data-sufficiency tier
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Trend labels the direction of a product's clean sales velocity
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendStable     Trend = "STABLE"
	TrendDecreasing Trend = "DECREASING"
)

var eventSources = map[string]EventSource{
	"manufacturer_ad": EventSourceManufacturerAd,
	"store_promo":     EventSourceStorePromo,
	"holiday":         EventSourceHoliday,
	"other":           EventSourceOther,
}

// ParseEventSource returns the EventSource for a label (case-insensitive).
func ParseEventSource(label string) (EventSource, bool) {
	src, ok := eventSources[strings.ToLower(label)]

	return src, ok
}
