package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/card-proxy/internal/api/handlers"
	"github.com/codyseavey/card-proxy/internal/metrics"
	"github.com/codyseavey/card-proxy/internal/services"
)

func SetupRouter(cardService *services.CardService) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(), gin.Recovery(), metrics.GinMiddleware())

	// Widgets embed this API from arbitrary sites, so every origin is allowed.
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(cardService)

	router.GET("/search", cardHandler.SearchCards)
	router.GET("/cards/:id", cardHandler.GetCard)

	// Liveness
	router.GET("/ping", handlers.Ping)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
