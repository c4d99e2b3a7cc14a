package handler

import (
	"errors"
	"net/http"

	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	// Summary is public; logged-in callers also get their own rating back
	public.GET("/articles/:slug/ratings", h.GetSummary)

	authed.POST("/articles/:slug/ratings", h.Submit)
	authed.DELETE("/articles/:slug/ratings", h.Delete)
}

// Submit creates or overwrites the caller's rating for an article
// POST /api/articles/:slug/ratings
func (h *RatingHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SubmitRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.ratingService.SubmitRating(c.Request.Context(), userID.(string), c.Param("slug"), req.Score, req.Platform)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSummary returns the aggregate rating view for an article
// GET /api/articles/:slug/ratings
func (h *RatingHandler) GetSummary(c *gin.Context) {
	// Optional auth: empty userID just skips the own-rating fields
	userID := c.GetString("userID")

	summary, err := h.ratingService.GetSummary(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Delete removes the caller's rating for an article
// DELETE /api/articles/:slug/ratings
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), userID.(string), c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}
