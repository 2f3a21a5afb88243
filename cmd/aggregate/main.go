// cmd/aggregate/main.go
package main

import (
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/christianminimart/backend/internal/aggregation"
	"github.com/christianminimart/backend/internal/cache"
	"github.com/christianminimart/backend/internal/config"
	"github.com/christianminimart/backend/internal/repository/postgres"
	"github.com/christianminimart/backend/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "aggregate",
		Usage: "Roll raw completed sales into the per-day series used by the forecasting engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Postgres connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Target day in YYYY-MM-DD format (defaults to yesterday)",
			},
			&cli.IntFlag{
				Name:  "backfill",
				Usage: "Re-run for the last N days ending at --date",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("aggregation failed")
	}
}

func run(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	dbURL := c.String("db-url")
	if dbURL == "" {
		return fmt.Errorf("database URL is required (use --db-url or DATABASE_URL)")
	}

	day := time.Now().AddDate(0, 0, -1)
	if raw := c.String("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", raw, err)
		}
		day = parsed
	}

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Re-aggregated days make cached forecasts stale; share the server's
	// cache so the job can invalidate them.
	forecastCache, err := cache.NewForecastCache(config.Load().Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, skipping invalidation")
		forecastCache = cache.NewNoopForecastCache()
	}

	job := aggregation.NewJob(
		postgres.NewProductRepository(db),
		postgres.NewEventRepository(db),
		postgres.NewAggregationRepository(postgres.Wrap(db)),
		forecastCache,
	)

	start := time.Now()
	summaries, err := job.RunBackfill(c.Context, day, c.Int("backfill"))
	if err != nil {
		return err
	}

	var products int
	for _, s := range summaries {
		products += s.ProductsRolled
	}
	logger.Log.Info().
		Int("days", len(summaries)).
		Int("products", products).
		Dur("elapsed", time.Since(start)).
		Msg("aggregation complete")

	return nil
}
