package dto

import (
	"time"

	"manahub/internal/http-api/models"
)

// CreateTopicDTO for opening a new forum topic
type CreateTopicDTO struct {
	Title   string `json:"title" binding:"required,min=3,max=255"`
	Content string `json:"content" binding:"required,max=20000"`
}

// CreateReplyDTO for replying to a topic or another reply
type CreateReplyDTO struct {
	Content  string `json:"content" binding:"required,max=20000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type TopicResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToTopicResponse(topic *models.Topic) *TopicResponse {
	return &TopicResponse{
		ID:        topic.ID,
		Username:  topic.User.Username,
		Title:     topic.Title,
		Content:   topic.Content,
		CreatedAt: topic.CreatedAt,
	}
}

type ReplyResponse struct {
	ID        int64     `json:"id"`
	TopicID   int64     `json:"topic_id"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToReplyResponse(reply *models.TopicReply) *ReplyResponse {
	return &ReplyResponse{
		ID:        reply.ID,
		TopicID:   reply.TopicID,
		ParentID:  reply.ParentID,
		Username:  reply.User.Username,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	}
}

// CreateTopicResponse includes the mana credit for the creation
type CreateTopicResponse struct {
	Topic       *TopicResponse `json:"topic"`
	ManaAwarded int            `json:"mana_awarded"`
	ManaBalance int            `json:"mana_balance"`
}

// PaginatedTopicResponse for returning paginated topics
type PaginatedTopicResponse struct {
	Data       []TopicResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedTopicResponse(data []TopicResponse, total, page, pageSize int) *PaginatedTopicResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedTopicResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
