// Package config builds the explicit configuration struct the backfill
// pipeline runs from. All values come from the environment (plus .env via
// the caller); nothing in the pipeline reads globals.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// Config carries everything one backfill run needs.
type Config struct {
	Environment string
	LogLevel    string

	Instrument struct {
		Symbol string
		Venue  string
	}

	Warmup struct {
		TargetInterval string
		SlowPeriod     int
		FastPeriod     int
		PacingDelay    time.Duration
		ChunkTimeout   time.Duration
		BaseOversample float64
	}

	Provider struct {
		GatewayURL     string
		BybitAPIKey    string
		BybitAPISecret string
		BybitCategory  string
		BybitTestnet   bool
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}
}

// Load reads configuration from the environment, defaulting to a EUR/USD
// forex warmup.
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
	}

	cfg.Instrument.Symbol = getEnv("INSTRUMENT_SYMBOL", "EUR/USD")
	cfg.Instrument.Venue = getEnv("INSTRUMENT_VENUE", "IDEALPRO")

	cfg.Warmup.TargetInterval = getEnv("TARGET_INTERVAL", "15-MINUTE")
	cfg.Warmup.SlowPeriod = getEnvInt("SLOW_PERIOD", 270)
	cfg.Warmup.FastPeriod = getEnvInt("FAST_PERIOD", 50)
	cfg.Warmup.PacingDelay = getEnvDuration("PACING_DELAY", 2*time.Second)
	cfg.Warmup.ChunkTimeout = getEnvDuration("CHUNK_TIMEOUT", 120*time.Second)
	cfg.Warmup.BaseOversample = getEnvFloat("BASE_OVERSAMPLE", 1.7)

	cfg.Provider.GatewayURL = getEnv("IB_GATEWAY_URL", "")
	cfg.Provider.BybitAPIKey = getEnv("BYBIT_API_KEY", "")
	cfg.Provider.BybitAPISecret = getEnv("BYBIT_API_SECRET", "")
	cfg.Provider.BybitCategory = getEnv("BYBIT_CATEGORY", "spot")
	cfg.Provider.BybitTestnet = getEnvBool("BYBIT_TESTNET", false)

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)

	return cfg
}

// Validate checks the fields the pipeline cannot default.
func (c *Config) Validate() error {
	if c.Instrument.Symbol == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if c.Warmup.SlowPeriod <= 0 {
		return fmt.Errorf("slow period must be positive, got %d", c.Warmup.SlowPeriod)
	}
	if c.Warmup.FastPeriod <= 0 || c.Warmup.FastPeriod >= c.Warmup.SlowPeriod {
		return fmt.Errorf("fast period must be positive and below the slow period")
	}
	if _, err := types.ParseBarSpec(c.Warmup.TargetInterval); err != nil {
		return fmt.Errorf("invalid target interval: %w", err)
	}
	return nil
}

// TargetSpec parses the configured target interval. Validate first.
func (c *Config) TargetSpec() types.BarSpec {
	spec, err := types.ParseBarSpec(c.Warmup.TargetInterval)
	if err != nil {
		// Validate() rejects unparseable intervals; keep the documented
		// 15-minute fallback for callers that skipped it.
		return types.NewBarSpec(15, types.UnitMinute)
	}
	return spec
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
