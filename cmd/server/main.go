// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christianminimart/backend/internal/api"
	"github.com/christianminimart/backend/internal/cache"
	"github.com/christianminimart/backend/internal/config"
	"github.com/christianminimart/backend/internal/forecast"
	"github.com/christianminimart/backend/internal/repository/postgres"
	"github.com/christianminimart/backend/internal/service"
	"github.com/christianminimart/backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without caching")
		forecastCache = cache.NewNoopForecastCache()
	}

	productRepo := postgres.NewProductRepository(db.DB)
	salesRepo := postgres.NewSalesHistoryRepository(db.DB)
	eventRepo := postgres.NewEventRepository(db.DB)

	resolver := forecast.NewEventResolver(eventRepo)
	history := forecast.NewHistoryProvider(salesRepo, resolver)
	engine := forecast.NewEngine(
		productRepo,
		history,
		resolver,
		forecast.DefaultSeasonalityConfig(),
		forecast.Config{
			DefaultLookbackDays: cfg.Forecast.DefaultLookbackDays,
			TargetCoverageDays:  cfg.Forecast.TargetCoverageDays,
			ReorderHardCap:      cfg.Forecast.ReorderHardCap,
			DeadStockVelocity:   cfg.Forecast.DeadStockVelocity,
			GrowthFactorCap:     cfg.Forecast.GrowthFactorCap,
			BatchConcurrency:    cfg.Forecast.BatchConcurrency,
			BatchItemTimeout:    time.Duration(cfg.Forecast.BatchItemTimeoutSec) * time.Second,
		},
	)

	forecastService := service.NewForecastService(engine, productRepo, forecastCache)

	router := api.NewRouter(&api.Services{ForecastService: forecastService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
