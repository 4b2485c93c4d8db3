package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Environment
// variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Data files
	RawNewsPath   string // raw crawler output, multiple JSON array fragments
	CorpusPath    string // persisted enriched corpus
	TickerMapPath string // organization name -> ticker mapping table
	ReportPath    string // performance report artifact

	// Strategy
	Strategy StrategyConfig

	// Ingestion
	IngestLocale string // language hint for free-text date parsing

	// Collaborators
	Classifier ClassifierConfig
	Yahoo      YahooConfig

	// Infrastructure
	Database DatabaseConfig
	Redis    RedisConfig

	// API
	APIPort string

	// Logging
	LogLevel  string
	LogFormat string
}

// StrategyConfig holds the run parameters of the trading rule and the
// simulator. None of these are hard-coded anywhere else.
type StrategyConfig struct {
	BuyThreshold       float64
	SellThreshold      float64
	InitialCash        float64
	FeeRate            float64
	SlippageRate       float64
	AllocationFraction float64 // fraction of current cash spent per entry
	Annualization      int     // periods per year for Sharpe scaling
}

// Validate checks the strategy precondition: a buy threshold below the
// sell threshold is a configuration error, not a runtime one.
func (s StrategyConfig) Validate() error {
	if s.BuyThreshold < s.SellThreshold {
		return fmt.Errorf("buy threshold %.2f must be >= sell threshold %.2f",
			s.BuyThreshold, s.SellThreshold)
	}
	if s.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive, got %.2f", s.InitialCash)
	}
	if s.AllocationFraction <= 0 || s.AllocationFraction > 1 {
		return fmt.Errorf("allocation fraction must be in (0, 1], got %.2f", s.AllocationFraction)
	}
	if s.Annualization <= 0 {
		return fmt.Errorf("annualization factor must be positive, got %d", s.Annualization)
	}
	return nil
}

// ClassifierConfig holds the sentiment classifier service configuration.
type ClassifierConfig struct {
	BaseURL string
	Timeout time.Duration
}

// YahooConfig holds the market-data provider configuration.
type YahooConfig struct {
	BaseURL    string
	MaxRetries int
	RatePerSec int // local request budget toward the chart API
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables, optionally
// seeded from a .env file probed at a few likely locations.
func Load() (*Config, error) {
	loadEnvFile()
	return fromEnv()
}

// LoadFrom is Load with an explicit env file instead of the probed
// locations. The file must exist.
func LoadFrom(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return fromEnv()
}

// fromEnv assembles the config. This is the only place that calls
// os.Getenv().
func fromEnv() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "development"),

		RawNewsPath:   getEnv("RAW_NEWS_PATH", "data/financial_news.json"),
		CorpusPath:    getEnv("CORPUS_PATH", "data/corpus.json"),
		TickerMapPath: getEnv("TICKER_MAP_PATH", "data/ticker_map.json"),
		ReportPath:    getEnv("REPORT_PATH", "data/report.json"),

		Strategy: StrategyConfig{
			BuyThreshold:       getEnvAsFloat("BUY_THRESHOLD", 1),
			SellThreshold:      getEnvAsFloat("SELL_THRESHOLD", -1),
			InitialCash:        getEnvAsFloat("INITIAL_CASH", 100_000),
			FeeRate:            getEnvAsFloat("FEE_RATE", 0.001),
			SlippageRate:       getEnvAsFloat("SLIPPAGE_RATE", 0.001),
			AllocationFraction: getEnvAsFloat("ALLOCATION_FRACTION", 0.25),
			Annualization:      getEnvAsInt("ANNUALIZATION_FACTOR", 252),
		},

		IngestLocale: getEnv("INGEST_LOCALE", "pt"),

		Classifier: ClassifierConfig{
			BaseURL: getEnv("CLASSIFIER_URL", "http://localhost:8501"),
			Timeout: getEnvAsDuration("CLASSIFIER_TIMEOUT", "30s"),
		},

		Yahoo: YahooConfig{
			BaseURL:    getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			MaxRetries: getEnvAsInt("YAHOO_MAX_RETRIES", 3),
			RatePerSec: getEnvAsInt("YAHOO_RATE_PER_SEC", 5),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		APIPort: getEnv("API_PORT", "8084"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	return c.Strategy.Validate()
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
