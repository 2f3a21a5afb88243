// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// ForecastConfig carries the forecasting engine's business constants. The
// numeric defaults are load-bearing: the classifiers and the reorder
// calculator were calibrated against them.
type ForecastConfig struct {
	DefaultLookbackDays int
	TargetCoverageDays  int
	ReorderHardCap      int
	DeadStockVelocity   float64
	GrowthFactorCap     float64
	BatchConcurrency    int
	BatchItemTimeoutSec int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "minimart")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("FORECAST_LOOKBACK_DAYS", 30)
		viper.SetDefault("FORECAST_TARGET_COVERAGE_DAYS", 14)
		viper.SetDefault("FORECAST_REORDER_HARD_CAP", 200)
		viper.SetDefault("FORECAST_DEAD_STOCK_VELOCITY", 0.1)
		viper.SetDefault("FORECAST_GROWTH_FACTOR_CAP", 1.5)
		viper.SetDefault("FORECAST_BATCH_CONCURRENCY", 8)
		viper.SetDefault("FORECAST_BATCH_ITEM_TIMEOUT_SECONDS", 10)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				DefaultLookbackDays: viper.GetInt("FORECAST_LOOKBACK_DAYS"),
				TargetCoverageDays:  viper.GetInt("FORECAST_TARGET_COVERAGE_DAYS"),
				ReorderHardCap:      viper.GetInt("FORECAST_REORDER_HARD_CAP"),
				DeadStockVelocity:   viper.GetFloat64("FORECAST_DEAD_STOCK_VELOCITY"),
				GrowthFactorCap:     viper.GetFloat64("FORECAST_GROWTH_FACTOR_CAP"),
				BatchConcurrency:    viper.GetInt("FORECAST_BATCH_CONCURRENCY"),
				BatchItemTimeoutSec: viper.GetInt("FORECAST_BATCH_ITEM_TIMEOUT_SECONDS"),
			},
		}
	})

	return instance
}
