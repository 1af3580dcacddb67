package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stockval/internal/domain"
	infraconfig "stockval/internal/infrastructure/config"
)

var ErrMissingAPIKey = errors.New("ALPHAVANTAGE_API_KEY is required (set it in .env)")

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Providers
	Provider           string
	AlphaVantageBase   string
	AlphaVantageAPIKey string
	FrankfurterBase    string
	RequestTimeout     time.Duration
	// Valuation
	BaseCurrency     string
	FloorYear        int
	StrictConversion bool
	// Cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Background refresh
	Watchlist       []string
	RefreshInterval time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func msDef(key string, def time.Duration) time.Duration {
	ms := atoiDef(getEnv(key, ""), -1)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", infraconfig.DefaultHTTPPort),
		Provider:           getEnv("PROVIDER", "alphavantage"),
		AlphaVantageBase:   getEnv("ALPHAVANTAGE_BASE", "https://www.alphavantage.co"),
		AlphaVantageAPIKey: getEnv("ALPHAVANTAGE_API_KEY", ""),
		FrankfurterBase:    getEnv("FRANKFURTER_BASE", "https://api.frankfurter.dev/v1"),
		RequestTimeout:     msDef("REQUEST_TIMEOUT_MS", infraconfig.DefaultRequestTimeout),
		BaseCurrency:       strings.ToUpper(getEnv("BASE_CURRENCY", string(domain.DefaultBase))),
		FloorYear:          atoiDef(getEnv("FLOOR_YEAR", ""), infraconfig.DefaultFloorYear),
		StrictConversion:   boolDef(getEnv("STRICT_CONVERSION", "false"), false),
		CacheBackend:       getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:           msDef("CACHE_TTL_MS", 0),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		Watchlist:          splitList(getEnv("WATCHLIST", "")),
		RefreshInterval:    msDef("REFRESH_INTERVAL_MS", 0),
	}
}

// Validate fails fast on settings the process cannot run without.
func (c Config) Validate() error {
	if c.Provider != "fake" && c.AlphaVantageAPIKey == "" {
		return ErrMissingAPIKey
	}
	if _, err := domain.ParseCurrency(c.BaseCurrency); err != nil {
		return fmt.Errorf("BASE_CURRENCY: %w", err)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND=%q", c.CacheBackend)
	}
	return nil
}

// Base returns the configured default base currency. Call Validate first.
func (c Config) Base() domain.Currency {
	return domain.Currency(c.BaseCurrency)
}
