package service

import (
	"context"
	"errors"

	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Actor is the account whose action triggers notifications.
type Actor struct {
	ID   string
	Name string // display name snapshot
}

// NotificationContext classifies the content a notification points at.
type NotificationContext struct {
	Type        string // models.ContextComment, ContextForumTopic, ContextForumReply
	ID          int64
	ArticleSlug *string
	TopicID     *int64
}

type NotificationService interface {
	// NotifyMentions extracts @handles from text, resolves them to accounts
	// and raises one mention notification per resolved account, skipping the
	// actor. Returns how many rows were handed to the store. Re-invoking for
	// the same content (e.g. after an edit) cannot double-notify.
	NotifyMentions(ctx context.Context, text string, actor Actor, nctx NotificationContext) (int, error)
	// NotifyReply raises exactly one reply notification for the owner of the
	// parent content, unless the owner is the actor.
	NotifyReply(ctx context.Context, parentOwnerID string, actor Actor, nctx NotificationContext) error

	List(ctx context.Context, userID string) ([]models.Notification, error)
	GetUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo}
}

func (s *notificationService) NotifyMentions(ctx context.Context, text string, actor Actor, nctx NotificationContext) (int, error) {
	handles := ExtractMentions(text)
	if len(handles) == 0 {
		return 0, nil
	}

	// Case-insensitive exact match on display names; unresolved handles are
	// silently dropped, never an error.
	users, err := s.userRepo.FindByDisplayNames(handles)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(users))
	notifications := make([]models.Notification, 0, len(users))
	for _, user := range users {
		if user.ID == actor.ID { // no self-notification
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}

		notifications = append(notifications, models.Notification{
			UserID:      user.ID,
			Type:        models.NotificationTypeMention,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
			ContextType: nctx.Type,
			ContextID:   nctx.ID,
			ArticleSlug: nctx.ArticleSlug,
			TopicID:     nctx.TopicID,
		})
	}

	if err := s.repo.CreateSkipDuplicates(ctx, notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}

func (s *notificationService) NotifyReply(ctx context.Context, parentOwnerID string, actor Actor, nctx NotificationContext) error {
	if parentOwnerID == actor.ID {
		return nil
	}

	return s.repo.Create(ctx, &models.Notification{
		UserID:      parentOwnerID,
		Type:        models.NotificationTypeReply,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ContextType: nctx.Type,
		ContextID:   nctx.ID,
		ArticleSlug: nctx.ArticleSlug,
		TopicID:     nctx.TopicID,
	})
}

func (s *notificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetByUser(ctx, userID, 100)
}

func (s *notificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	ok, err := s.repo.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
