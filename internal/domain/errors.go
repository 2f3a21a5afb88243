package domain

import "errors"

// ErrProductNotFound is returned when a forecast is requested for a product
// the catalog does not know. Batch callers treat it as a per-item failure.
var ErrProductNotFound = errors.New("product not found")
