package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "PROVIDER_SEARCH_URL", "PROVIDER_CARD_URL", "PROVIDER_API_KEY",
	"PROVIDER_AUTH", "PROVIDER_CURRENCY", "PROVIDER_TIMEOUT", "PROVIDER_RPS",
	"PROVIDER_BURST", "CACHE_SIZE", "CACHE_TTL", "REDIS_URL", "LOG_LEVEL", "LOG_PRETTY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Expected default port 3000, got %s", cfg.Port)
	}
	if !cfg.DemoSearch() || !cfg.DemoCards() {
		t.Error("Expected demo mode when no provider URLs are set")
	}
	if !cfg.SendAuth {
		t.Error("Expected auth header to default on")
	}
	if cfg.Currency != "USD" {
		t.Errorf("Expected default currency USD, got %s", cfg.Currency)
	}
	if cfg.CacheSize != 500 {
		t.Errorf("Expected cache size 500, got %d", cfg.CacheSize)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("Expected cache TTL 10m, got %s", cfg.CacheTTL)
	}
	if cfg.ProviderTimeout != 10*time.Second {
		t.Errorf("Expected provider timeout 10s, got %s", cfg.ProviderTimeout)
	}
	if cfg.ProviderRPS != 0 {
		t.Errorf("Expected throttling disabled, got %v", cfg.ProviderRPS)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("PROVIDER_SEARCH_URL", "https://api.example.com/search")
	t.Setenv("PROVIDER_CARD_URL", "https://api.example.com/cards/{id}")
	t.Setenv("PROVIDER_API_KEY", "secret")
	t.Setenv("PROVIDER_AUTH", "off")
	t.Setenv("PROVIDER_CURRENCY", "eur")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PROVIDER_RPS", "2.5")
	t.Setenv("CACHE_SIZE", "50")
	t.Setenv("CACHE_TTL", "30")

	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Expected port 8081, got %s", cfg.Port)
	}
	if cfg.DemoSearch() || cfg.DemoCards() {
		t.Error("Expected provider mode when URLs are set")
	}
	if cfg.APIKey != "secret" {
		t.Errorf("Expected API key 'secret', got %s", cfg.APIKey)
	}
	if cfg.SendAuth {
		t.Error("Expected auth header off")
	}
	if cfg.Currency != "EUR" {
		t.Errorf("Expected currency EUR, got %s", cfg.Currency)
	}
	if cfg.ProviderTimeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %s", cfg.ProviderTimeout)
	}
	if cfg.ProviderRPS != 2.5 {
		t.Errorf("Expected RPS 2.5, got %v", cfg.ProviderRPS)
	}
	if cfg.CacheSize != 50 {
		t.Errorf("Expected cache size 50, got %d", cfg.CacheSize)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("Expected bare seconds to parse as 30s, got %s", cfg.CacheTTL)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_SIZE", "lots")
	t.Setenv("CACHE_TTL", "-5m")
	t.Setenv("PROVIDER_RPS", "-1")
	t.Setenv("PROVIDER_CURRENCY", "GBP")

	cfg := Load()

	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("Expected default cache size, got %d", cfg.CacheSize)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("Expected default TTL, got %s", cfg.CacheTTL)
	}
	if cfg.ProviderRPS != 0 {
		t.Errorf("Expected default RPS, got %v", cfg.ProviderRPS)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Expected fallback currency USD, got %s", cfg.Currency)
	}
}

func TestGetToggle(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		expected bool
	}{
		{"on", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"off", true, false},
		{"no", true, false},
		{"", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TOGGLE_TEST", tt.value)
			if got := getToggle("TOGGLE_TEST", tt.fallback); got != tt.expected {
				t.Errorf("getToggle(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "PORT=9999\nPROVIDER_API_KEY=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PORT", "4000")
	// godotenv sets variables directly; make sure the test does not leak them.
	t.Setenv("PROVIDER_API_KEY", "")
	os.Unsetenv("PROVIDER_API_KEY")

	LoadDotEnv()

	if got := os.Getenv("PORT"); got != "4000" {
		t.Errorf("Expected existing PORT to win, got %s", got)
	}
	if got := os.Getenv("PROVIDER_API_KEY"); got != "from-file" {
		t.Errorf("Expected PROVIDER_API_KEY from .env, got %q", got)
	}
}
