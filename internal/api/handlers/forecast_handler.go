package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// GetForecast handles GET /forecast/products/:id
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	input := domain.ForecastInput{
		ProductID:              productID,
		ForecastDate:           parseDate(c.Query("forecast_date")),
		IncludeEventAdjustment: true,
	}

	if lookback, err := strconv.Atoi(c.DefaultQuery("lookback_days", "0")); err == nil && lookback > 0 {
		input.LookbackDays = lookback
	}

	if raw := strings.TrimSpace(c.Query("include_events")); raw != "" {
		if include, err := strconv.ParseBool(raw); err == nil {
			input.IncludeEventAdjustment = include
		}
	}

	result, err := h.service.Forecast(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type batchForecastRequest struct {
	ProductIDs   []int64 `json:"product_ids" binding:"required"`
	ForecastDate string  `json:"forecast_date"`
}

// BatchForecast handles POST /forecast/batch
func (h *ForecastHandler) BatchForecast(c *gin.Context) {
	var req batchForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_ids must not be empty"})
		return
	}

	results, err := h.service.ForecastBatch(c.Request.Context(), parseDate(req.ForecastDate), req.ProductIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute batch forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": results,
		"requested": len(req.ProductIDs),
		"returned":  len(results),
	})
}

// GetReorderSuggestions handles GET /forecast/reorder_suggestions
func (h *ForecastHandler) GetReorderSuggestions(c *gin.Context) {
	suggestions, err := h.service.ReorderSuggestions(c.Request.Context(), parseDate(c.Query("forecast_date")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reorder suggestions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "count": len(suggestions)})
}

// parseDate parses YYYY-MM-DD, leaving the zero value ("today") on failure.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return date
}
