package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAppName       = "coinbank"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultCoinName      = "sats"
	defaultCoinSymbol    = "sats"
	defaultInvoiceTTL    = 15 * time.Minute
	defaultSessionTTL    = 24 * time.Hour
	defaultIdemTTL       = 24 * time.Hour
	defaultShutdownDelay = 10 * time.Second
)

// Config captures application runtime configuration loaded from environment
// variables. Bank identity and coin naming are injected through this struct
// rather than read from the environment at call sites.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	MintURL        string
	BankAccount    string
	CoinName       string
	CoinSymbol     string
	InvoiceTTL     time.Duration
	SessionTTL     time.Duration
	IdempotencyTTL time.Duration
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. BANK_ACCOUNT may be empty, in which case the ledger runs without a
// designated bank account and custody totals are not tracked.
func Load() (Config, error) {
	cfg := Config{
		AppName:     getEnv("APP_NAME", defaultAppName),
		AppEnv:      getEnv("APP_ENV", defaultAppEnv),
		Port:        getEnv("PORT", defaultPort),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		MintURL:     os.Getenv("MINT_URL"),
		BankAccount: os.Getenv("BANK_ACCOUNT"),
		CoinName:    getEnv("COIN_NAME", defaultCoinName),
		CoinSymbol:  getEnv("COIN_SYMBOL", defaultCoinSymbol),
	}

	var err error
	if cfg.InvoiceTTL, err = durationEnv("INVOICE_TTL", defaultInvoiceTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", defaultIdemTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", defaultShutdownDelay); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
