package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-proxy/internal/models"
	"github.com/codyseavey/card-proxy/internal/services"
)

type CardHandler struct {
	cardService *services.CardService
}

func NewCardHandler(cardService *services.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// SearchCards always answers 200; upstream failures yield an empty array.
func (h *CardHandler) SearchCards(c *gin.Context) {
	results := h.cardService.Search(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, results)
}

func (h *CardHandler) GetCard(c *gin.Context) {
	id := c.Param("id")

	card, err := h.cardService.GetCard(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "failed",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

// Ping is the liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"ts": models.FormatInstant(time.Now()),
	})
}
