package handler

import (
	"errors"
	"net/http"
	"strconv"

	"manahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService service.ArticleService
}

func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// RegisterRoutes registers article-related routes
func (h *ArticleHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/articles", h.List)
	public.GET("/articles/:slug", h.Get)

	// Read tracking requires an authenticated account
	authed.POST("/articles/:slug/read", h.TrackRead)
}

// List returns a page of article metadata from the CMS
// GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	articles, err := h.articleService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": articles, "page": page, "page_size": pageSize})
}

// Get returns one article's metadata
// GET /api/articles/:slug
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articleService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// TrackRead records a read of the article for the current user; the first
// read per article credits mana
// POST /api/articles/:slug/read
func (h *ArticleHandler) TrackRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.articleService.TrackRead(c.Request.Context(), userID.(string), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
