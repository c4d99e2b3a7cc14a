package handler

import (
	"errors"
	"net/http"

	"manahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ManaHandler struct {
	manaService service.ManaService
}

func NewManaHandler(manaService service.ManaService) *ManaHandler {
	return &ManaHandler{
		manaService: manaService,
	}
}

// RegisterRoutes registers mana routes (all require authentication)
func (h *ManaHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/mana", h.GetBalance)
}

// GetBalance returns the caller's mana balance and recent audit history
// GET /api/mana
func (h *ManaHandler) GetBalance(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	balance, err := h.manaService.GetBalance(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, balance)
}
