package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sentimentMarket/internal/adapters/logger" // Import the logger package for LogLevel
)

// Provider selects the market data backend.
const (
	ProviderAlpaca  = "alpaca"
	ProviderBinance = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Instrument and data provider
	Symbol       string // e.g. "QQQ" (alpaca) or "BTCUSDT" (binance)
	DataProvider string // "alpaca" or "binance"
	BarLimit     int    // Max bars fetched per article (~one trading day of minutes)

	// Alpaca API
	AlpacaAPIKey    string
	AlpacaSecretKey string
	AlpacaFeed      string // Data feed, "iex" unless a SIP subscription exists

	// Binance API (optional; kline endpoints are public)
	BinanceAPIKey    string
	BinanceSecretKey string

	// Sentiment scoring
	SentimentModel     string // Hugging Face model ID
	HFToken            string
	SentimentThreshold float64 // Neutral band half-width for accuracy labeling

	// Time alignment
	MarketTimezone string // IANA zone of the exchange

	// Files
	InputPath  string
	OutputPath string

	// Database (empty path disables run persistence)
	DBPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter

	// Per-call timeouts for external collaborators
	FetchTimeout time.Duration
	ScoreTimeout time.Duration

	// Progress reporting interval (rows)
	ProgressEvery int

	// AllowInsecureTLS disables TLS verification on Alpaca requests, for
	// environments behind certificate-rewriting proxies.
	AllowInsecureTLS bool
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Instrument / provider
	cfg.Symbol = getEnv("SYMBOL", "QQQ")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	cfg.DataProvider = strings.ToLower(getEnv("DATA_PROVIDER", ProviderAlpaca))
	switch cfg.DataProvider {
	case ProviderAlpaca, ProviderBinance:
	default:
		errs = append(errs, fmt.Sprintf("DATA_PROVIDER must be %q or %q", ProviderAlpaca, ProviderBinance))
	}

	cfg.BarLimit, err = getEnvAsIntRequired("BAR_LIMIT", 400)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BAR_LIMIT: %v", err))
	} else if cfg.BarLimit <= 0 {
		errs = append(errs, "BAR_LIMIT must be positive")
	}

	// Alpaca API (required only when selected)
	cfg.AlpacaAPIKey = getEnv("ALPACA_API_KEY", "")
	cfg.AlpacaSecretKey = getEnv("ALPACA_API_SECRET", "")
	cfg.AlpacaFeed = getEnv("ALPACA_FEED", "iex")
	if cfg.DataProvider == ProviderAlpaca {
		if cfg.AlpacaAPIKey == "" {
			errs = append(errs, "ALPACA_API_KEY must be set when DATA_PROVIDER=alpaca")
		}
		if cfg.AlpacaSecretKey == "" {
			errs = append(errs, "ALPACA_API_SECRET must be set when DATA_PROVIDER=alpaca")
		}
	}

	// Binance API
	cfg.BinanceAPIKey = getEnv("BINANCE_API_KEY", "")
	cfg.BinanceSecretKey = getEnv("BINANCE_API_SECRET", "")

	// Sentiment
	cfg.SentimentModel = getEnv("SENTIMENT_MODEL", "ProsusAI/finbert")
	if cfg.SentimentModel == "" {
		errs = append(errs, "SENTIMENT_MODEL must be set")
	}
	cfg.HFToken = getEnv("HF_API_TOKEN", "")

	cfg.SentimentThreshold, err = getEnvAsFloatRequired("SENTIMENT_THRESHOLD", 0.05)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SENTIMENT_THRESHOLD: %v", err))
	} else if cfg.SentimentThreshold <= 0 || cfg.SentimentThreshold >= 1.0 {
		errs = append(errs, "SENTIMENT_THRESHOLD must be between 0.0 and 1.0 (exclusive)")
	}

	// Time alignment
	cfg.MarketTimezone = getEnv("MARKET_TIMEZONE", "America/New_York")

	// Files
	cfg.InputPath = getEnv("INPUT_PATH", "./data/articles.csv")
	if cfg.InputPath == "" {
		errs = append(errs, "INPUT_PATH must be set")
	}
	cfg.OutputPath = getEnv("OUTPUT_PATH", "./data/final_results.csv")
	if cfg.OutputPath == "" {
		errs = append(errs, "OUTPUT_PATH must be set")
	}

	// Database (optional)
	cfg.DBPath = getEnv("DB_PATH", "")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Timeouts
	fetchTimeoutSeconds := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)
	if fetchTimeoutSeconds <= 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must be positive")
	}
	cfg.FetchTimeout = time.Duration(fetchTimeoutSeconds) * time.Second

	scoreTimeoutSeconds := getEnvAsInt("SCORE_TIMEOUT_SECONDS", 30)
	if scoreTimeoutSeconds <= 0 {
		errs = append(errs, "SCORE_TIMEOUT_SECONDS must be positive")
	}
	cfg.ScoreTimeout = time.Duration(scoreTimeoutSeconds) * time.Second

	// Progress
	cfg.ProgressEvery = getEnvAsInt("PROGRESS_EVERY", 10)
	if cfg.ProgressEvery <= 0 {
		errs = append(errs, "PROGRESS_EVERY must be positive")
	}

	// TLS escape hatch
	cfg.AllowInsecureTLS = getEnvAsBool("ALLOW_INSECURE_TLS", false)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
