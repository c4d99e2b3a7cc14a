package handler

import (
	"errors"
	"net/http"
	"strconv"

	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	forumService service.ForumService
}

func NewForumHandler(forumService service.ForumService) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
	}
}

// RegisterRoutes registers forum-related routes
func (h *ForumHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/forum/topics", h.ListTopics)
	public.GET("/forum/topics/:topic_id", h.GetTopic)

	authed.POST("/forum/topics", h.CreateTopic)
	authed.POST("/forum/topics/:topic_id/replies", h.CreateReply)
}

// CreateTopic opens a new forum topic; every creation credits mana
// POST /api/forum/topics
func (h *ForumHandler) CreateTopic(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateTopicDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.forumService.CreateTopic(c.Request.Context(), userID.(string), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListTopics retrieves forum topics with pagination
// GET /api/forum/topics
func (h *ForumHandler) ListTopics(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	topics, err := h.forumService.ListTopics(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, topics)
}

// GetTopic retrieves one topic and its replies
// GET /api/forum/topics/:topic_id
func (h *ForumHandler) GetTopic(c *gin.Context) {
	topicID, err := strconv.ParseInt(c.Param("topic_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic ID"})
		return
	}

	topic, replies, err := h.forumService.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic, "replies": replies})
}

// CreateReply posts a reply to a topic (or to another reply); the parent
// author gets a reply notification, @mentions notify the mentioned accounts
// POST /api/forum/topics/:topic_id/replies
func (h *ForumHandler) CreateReply(c *gin.Context) {
	topicID, err := strconv.ParseInt(c.Param("topic_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateReplyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.forumService.CreateReply(c.Request.Context(), userID.(string), topicID, req.Content, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound), errors.Is(err, service.ErrReplyNotFound), errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrReplyWrongTopic):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, reply)
}
