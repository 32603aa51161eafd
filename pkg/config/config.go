package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel  string
	LogFormat string
	HTTPPort  string

	// HTTPCORSOrigins lists origins allowed to call the /api routes.
	HTTPCORSOrigins []string

	// Odds API
	OddsAPIURL         string
	OddsAPIKey         string
	OddsAPIKeyFile     string
	OddsSport          string
	OddsRegions        string
	OddsMarkets        string
	OddsRequestTimeout time.Duration
	OddsCacheTTL       time.Duration

	// Arbitrage
	ArbMarketKey      string
	ArbReferenceStake float64
	ArbPriceFormat    string
	ArbWorkers        int

	// Scanner
	ScanInterval time.Duration

	// Quota circuit breaker
	QuotaBreakerEnabled  bool
	QuotaMinRemaining    float64
	QuotaScanMultiplier  float64
	QuotaHysteresisRatio float64
	QuotaProbeInterval   time.Duration

	// Storage
	StorageMode   string // "console", "csv" or "postgres"
	CSVOutputPath string
	PostgresHost  string
	PostgresPort  string
	PostgresUser  string
	PostgresPass  string
	PostgresDB    string
	PostgresSSL   string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		HTTPPort:  getEnvOrDefault("HTTP_PORT", "8080"),

		HTTPCORSOrigins: getListOrDefault("HTTP_CORS_ORIGINS", nil),

		// Odds API defaults
		OddsAPIURL:         getEnvOrDefault("ODDS_API_URL", "https://api.the-odds-api.com"),
		OddsAPIKey:         os.Getenv("ODDS_API_KEY"),
		OddsAPIKeyFile:     os.Getenv("ODDS_API_KEY_FILE"),
		OddsSport:          getEnvOrDefault("ODDS_SPORT", "upcoming"),
		OddsRegions:        getEnvOrDefault("ODDS_REGIONS", "us,uk,eu,au"),
		OddsMarkets:        getEnvOrDefault("ODDS_MARKETS", "h2h,spreads,totals"),
		OddsRequestTimeout: getDurationOrDefault("ODDS_REQUEST_TIMEOUT", 30*time.Second),
		OddsCacheTTL:       getDurationOrDefault("ODDS_CACHE_TTL", 60*time.Second),

		// Arbitrage defaults
		ArbMarketKey:      getEnvOrDefault("ARB_MARKET_KEY", "h2h"),
		ArbReferenceStake: getFloat64OrDefault("ARB_REFERENCE_STAKE", 100.0),
		ArbPriceFormat:    getEnvOrDefault("ARB_PRICE_FORMAT", string(oddsmath.FormatMoneyline)),
		ArbWorkers:        getIntOrDefault("ARB_WORKERS", 4),

		// Scanner defaults
		ScanInterval: getDurationOrDefault("SCAN_INTERVAL", 5*time.Minute),

		// Quota circuit breaker defaults
		QuotaBreakerEnabled:  getBoolOrDefault("QUOTA_BREAKER_ENABLED", true),
		QuotaMinRemaining:    getFloat64OrDefault("QUOTA_MIN_REMAINING", 10.0),
		QuotaScanMultiplier:  getFloat64OrDefault("QUOTA_SCAN_MULTIPLIER", 3.0),
		QuotaHysteresisRatio: getFloat64OrDefault("QUOTA_HYSTERESIS_RATIO", 1.5),
		QuotaProbeInterval:   getDurationOrDefault("QUOTA_PROBE_INTERVAL", time.Hour),

		// Storage defaults
		StorageMode:   getEnvOrDefault("STORAGE_MODE", "console"),
		CSVOutputPath: getEnvOrDefault("CSV_OUTPUT_PATH", "bets.csv"),
		PostgresHost:  getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:  getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser:  getEnvOrDefault("POSTGRES_USER", "sportsbook"),
		PostgresPass:  getEnvOrDefault("POSTGRES_PASSWORD", "sportsbook123"),
		PostgresDB:    getEnvOrDefault("POSTGRES_DB", "sportsbook_arb"),
		PostgresSSL:   getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	if cfg.OddsAPIKey == "" && cfg.OddsAPIKeyFile != "" {
		key, err := readKeyFile(cfg.OddsAPIKeyFile)
		if err != nil {
			return nil, err
		}
		cfg.OddsAPIKey = key
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.LogFormat)
	}

	if c.OddsAPIURL == "" {
		return fmt.Errorf("ODDS_API_URL cannot be empty")
	}

	if c.OddsSport == "" {
		return fmt.Errorf("ODDS_SPORT cannot be empty")
	}

	if c.OddsRegions == "" {
		return fmt.Errorf("ODDS_REGIONS cannot be empty")
	}

	if c.OddsMarkets == "" {
		return fmt.Errorf("ODDS_MARKETS cannot be empty")
	}

	if c.OddsCacheTTL < 0 {
		return fmt.Errorf("ODDS_CACHE_TTL must be non-negative (0 = no caching), got %v", c.OddsCacheTTL)
	}

	if c.ArbReferenceStake <= 0 {
		return fmt.Errorf("ARB_REFERENCE_STAKE must be positive, got %v", c.ArbReferenceStake)
	}

	_, err := oddsmath.ParseFormat(c.ArbPriceFormat)
	if err != nil {
		return fmt.Errorf("ARB_PRICE_FORMAT: %w", err)
	}

	if c.ArbWorkers < 1 {
		return fmt.Errorf("ARB_WORKERS must be at least 1, got %d", c.ArbWorkers)
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %v", c.ScanInterval)
	}

	if c.QuotaBreakerEnabled {
		if c.QuotaMinRemaining <= 0 {
			return fmt.Errorf("QUOTA_MIN_REMAINING must be positive, got %v", c.QuotaMinRemaining)
		}

		if c.QuotaScanMultiplier <= 0 {
			return fmt.Errorf("QUOTA_SCAN_MULTIPLIER must be positive, got %v", c.QuotaScanMultiplier)
		}

		if c.QuotaHysteresisRatio < 1.0 {
			return fmt.Errorf("QUOTA_HYSTERESIS_RATIO must be >= 1.0, got %v", c.QuotaHysteresisRatio)
		}

		if c.QuotaProbeInterval <= 0 {
			return fmt.Errorf("QUOTA_PROBE_INTERVAL must be positive, got %v", c.QuotaProbeInterval)
		}
	}

	switch c.StorageMode {
	case "console", "postgres":
	case "csv":
		if c.CSVOutputPath == "" {
			return fmt.Errorf("CSV_OUTPUT_PATH cannot be empty when STORAGE_MODE is 'csv'")
		}
	default:
		return fmt.Errorf("STORAGE_MODE must be 'console', 'csv' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

// PriceFormat returns the parsed display format.
func (c *Config) PriceFormat() oddsmath.Format {
	format, err := oddsmath.ParseFormat(c.ArbPriceFormat)
	if err != nil {
		return oddsmath.FormatDecimal
	}
	return format
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read ODDS_API_KEY_FILE: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getListOrDefault splits a comma separated value, dropping empty entries.
func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}

	return list
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
