package service

import (
	"context"
	"errors"

	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrTopicNotFound   = errors.New("topic not found")
	ErrReplyNotFound   = errors.New("reply not found")
	ErrReplyWrongTopic = errors.New("parent reply belongs to a different topic")
)

type ForumService interface {
	// CreateTopic persists the topic, credits the creation mana (every topic
	// pays out, no dedup) and fans out mention notifications from the body.
	CreateTopic(ctx context.Context, userID, title, content string) (*dto.CreateTopicResponse, error)
	GetTopic(ctx context.Context, topicID int64) (*dto.TopicResponse, []dto.ReplyResponse, error)
	ListTopics(ctx context.Context, page, pageSize int) (*dto.PaginatedTopicResponse, error)
	// CreateReply persists the reply, notifies the parent author (topic
	// owner, or the parent reply's author) and fans out mentions.
	CreateReply(ctx context.Context, userID string, topicID int64, content string, parentID *int64) (*dto.ReplyResponse, error)
}

type forumService struct {
	topicRepo     repository.TopicRepository
	userRepo      repository.UserRepository
	manaService   ManaService
	notifications NotificationService
}

func NewForumService(
	topicRepo repository.TopicRepository,
	userRepo repository.UserRepository,
	manaService ManaService,
	notifications NotificationService,
) ForumService {
	return &forumService{
		topicRepo:     topicRepo,
		userRepo:      userRepo,
		manaService:   manaService,
		notifications: notifications,
	}
}

func (s *forumService) CreateTopic(ctx context.Context, userID, title, content string) (*dto.CreateTopicResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	topic := &models.Topic{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.topicRepo.CreateTopic(topic); err != nil {
		return nil, err
	}

	award, err := s.manaService.Award(ctx, userID, TriggerTopicCreated, title)
	if err != nil {
		return nil, err
	}

	actor := Actor{ID: user.ID, Name: actorDisplayName(user)}
	_, err = s.notifications.NotifyMentions(ctx, content, actor, NotificationContext{
		Type:    models.ContextForumTopic,
		ID:      topic.ID,
		TopicID: &topic.ID,
	})
	if err != nil {
		return nil, err
	}

	topic.User = *user
	return &dto.CreateTopicResponse{
		Topic:       dto.FromModelToTopicResponse(topic),
		ManaAwarded: award.Amount,
		ManaBalance: award.Balance,
	}, nil
}

func (s *forumService) GetTopic(ctx context.Context, topicID int64) (*dto.TopicResponse, []dto.ReplyResponse, error) {
	topic, err := s.topicRepo.GetTopicByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTopicNotFound
		}
		return nil, nil, err
	}

	replies, err := s.topicRepo.ListReplies(topicID)
	if err != nil {
		return nil, nil, err
	}

	replyResponses := make([]dto.ReplyResponse, 0, len(replies))
	for _, reply := range replies {
		replyResponses = append(replyResponses, *dto.FromModelToReplyResponse(&reply))
	}

	return dto.FromModelToTopicResponse(topic), replyResponses, nil
}

func (s *forumService) ListTopics(ctx context.Context, page, pageSize int) (*dto.PaginatedTopicResponse, error) {
	topics, total, err := s.topicRepo.ListTopics(page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, *dto.FromModelToTopicResponse(&topic))
	}

	return dto.NewPaginatedTopicResponse(responses, int(total), page, pageSize), nil
}

func (s *forumService) CreateReply(ctx context.Context, userID string, topicID int64, content string, parentID *int64) (*dto.ReplyResponse, error) {
	topic, err := s.topicRepo.GetTopicByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	// The reply notification goes to whoever owns the parent content.
	parentOwnerID := topic.UserID
	if parentID != nil {
		parent, err := s.topicRepo.GetReplyByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrReplyNotFound
			}
			return nil, err
		}
		if parent.TopicID != topicID {
			return nil, ErrReplyWrongTopic
		}
		parentOwnerID = parent.UserID
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reply := &models.TopicReply{
		TopicID:  topicID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.topicRepo.CreateReply(reply); err != nil {
		return nil, err
	}

	actor := Actor{ID: user.ID, Name: actorDisplayName(user)}
	nctx := NotificationContext{
		Type:    models.ContextForumReply,
		ID:      reply.ID,
		TopicID: &topicID,
	}

	if err := s.notifications.NotifyReply(ctx, parentOwnerID, actor, nctx); err != nil {
		return nil, err
	}
	if _, err := s.notifications.NotifyMentions(ctx, content, actor, nctx); err != nil {
		return nil, err
	}

	reply.User = *user
	return dto.FromModelToReplyResponse(reply), nil
}
