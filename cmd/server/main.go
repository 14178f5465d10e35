package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/card-proxy/internal/api"
	"github.com/codyseavey/card-proxy/internal/cache"
	"github.com/codyseavey/card-proxy/internal/config"
	"github.com/codyseavey/card-proxy/internal/logging"
	"github.com/codyseavey/card-proxy/internal/services"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Optional shared cache tier
	cacheOpts := cache.Options{Size: cfg.CacheSize, TTL: cfg.CacheTTL}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.DialRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cacheOpts.Shared = cache.NewRedisTier(redisClient)
		log.Info().Msg("Shared Redis cache tier enabled")
	}
	responseCache := cache.New(cacheOpts)

	provider := services.NewProviderClient(services.ProviderConfig{
		APIKey:   cfg.APIKey,
		SendAuth: cfg.SendAuth,
		Timeout:  cfg.ProviderTimeout,
		RPS:      cfg.ProviderRPS,
		Burst:    cfg.ProviderBurst,
	})
	normalizer := services.NewNormalizer(cfg.Currency)
	cardService := services.NewCardService(responseCache, provider, normalizer, cfg.SearchURL, cfg.CardURL)

	log.Info().
		Bool("demo_search", cfg.DemoSearch()).
		Bool("demo_cards", cfg.DemoCards()).
		Bool("auth_header", cfg.SendAuth && cfg.APIKey != "").
		Str("currency", cfg.Currency).
		Int("cache_size", cfg.CacheSize).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Card proxy configured")

	router := api.SetupRouter(cardService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
