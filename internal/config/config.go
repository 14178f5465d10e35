// Package config reads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/card-proxy/internal/models"
)

const (
	DefaultPort            = "3000"
	DefaultCacheSize       = 500
	DefaultCacheTTL        = 10 * time.Minute
	DefaultProviderTimeout = 10 * time.Second
	DefaultProviderBurst   = 5
)

// Config is the full runtime configuration. It is read once at startup.
type Config struct {
	Port string

	// Provider endpoints. An empty URL puts that endpoint in demo mode.
	SearchURL string
	CardURL   string // must contain an {id} placeholder

	APIKey string
	// SendAuth controls whether APIKey is sent as a bearer token.
	SendAuth bool
	Currency string

	ProviderTimeout time.Duration
	ProviderRPS     float64 // 0 disables outbound throttling
	ProviderBurst   int

	CacheSize int
	CacheTTL  time.Duration
	RedisURL  string

	LogLevel  string
	LogPretty bool
}

// LoadDotEnv loads .env.local and .env if present. Variables already set in
// the environment win.
func LoadDotEnv() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to load env file")
		}
	}
}

// Load builds a Config from the process environment. Malformed values are
// logged and replaced with defaults.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", DefaultPort),
		SearchURL:       strings.TrimSpace(os.Getenv("PROVIDER_SEARCH_URL")),
		CardURL:         strings.TrimSpace(os.Getenv("PROVIDER_CARD_URL")),
		APIKey:          os.Getenv("PROVIDER_API_KEY"),
		SendAuth:        getToggle("PROVIDER_AUTH", true),
		Currency:        getCurrency("PROVIDER_CURRENCY"),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", DefaultProviderTimeout),
		ProviderRPS:     getFloat("PROVIDER_RPS", 0),
		ProviderBurst:   getInt("PROVIDER_BURST", DefaultProviderBurst),
		CacheSize:       getInt("CACHE_SIZE", DefaultCacheSize),
		CacheTTL:        getDuration("CACHE_TTL", DefaultCacheTTL),
		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getToggle("LOG_PRETTY", false),
	}
}

// DemoSearch reports whether searches are served from the demo dataset.
func (c Config) DemoSearch() bool {
	return c.SearchURL == ""
}

// DemoCards reports whether card lookups are served from the demo dataset.
func (c Config) DemoCards() bool {
	return c.CardURL == ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return value
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", fallback).Msg("invalid number, using default")
		return fallback
	}
	return value
}

// getDuration accepts Go duration strings ("90s", "10m") or a bare number of
// seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return value
}

func getToggle(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "on", "true", "1", "yes":
		return true
	case "off", "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func getCurrency(key string) string {
	raw := strings.ToUpper(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return models.CurrencyUSD
	case models.CurrencyUSD, models.CurrencyEUR:
		return raw
	default:
		log.Warn().Str("key", key).Str("value", raw).Msg("unsupported currency, using USD")
		return models.CurrencyUSD
	}
}
