package repository

import (
	"manahub/internal/http-api/models"

	"gorm.io/gorm"
)

type TopicRepository interface {
	CreateTopic(topic *models.Topic) error
	GetTopicByID(id int64) (*models.Topic, error)
	ListTopics(page, pageSize int) ([]models.Topic, int64, error)
	CreateReply(reply *models.TopicReply) error
	GetReplyByID(id int64) (*models.TopicReply, error)
	ListReplies(topicID int64) ([]models.TopicReply, error)
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) CreateTopic(topic *models.Topic) error {
	return r.db.Create(topic).Error
}

func (r *topicRepository) GetTopicByID(id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.Preload("User").First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// ListTopics retrieves forum topics newest-first with pagination
func (r *topicRepository) ListTopics(page, pageSize int) ([]models.Topic, int64, error) {
	var topics []models.Topic
	var total int64

	if err := r.db.Model(&models.Topic{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&topics).Error
	if err != nil {
		return nil, 0, err
	}

	return topics, total, nil
}

func (r *topicRepository) CreateReply(reply *models.TopicReply) error {
	return r.db.Create(reply).Error
}

func (r *topicRepository) GetReplyByID(id int64) (*models.TopicReply, error) {
	var reply models.TopicReply
	if err := r.db.Preload("User").First(&reply, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *topicRepository) ListReplies(topicID int64) ([]models.TopicReply, error) {
	var replies []models.TopicReply
	err := r.db.Where("topic_id = ?", topicID).
		Preload("User").
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}
