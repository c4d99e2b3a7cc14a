package service

import (
	"context"
	"errors"

	"manahub/internal/cms"
	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("you don't have permission to delete this comment")
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, articleSlug, content string) (*dto.CommentResponse, error)
	GetArticleComments(ctx context.Context, articleSlug string, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	DeleteComment(ctx context.Context, commentID int64, userID string) error
}

type commentService struct {
	commentRepo   repository.CommentRepository
	userRepo      repository.UserRepository
	articles      ArticleSource
	notifications NotificationService
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	articles ArticleSource,
	notifications NotificationService,
) CommentService {
	return &commentService{
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		articles:      articles,
		notifications: notifications,
	}
}

// CreateComment persists the comment and fans out mention notifications.
func (s *commentService) CreateComment(ctx context.Context, userID, articleSlug, content string) (*dto.CommentResponse, error) {
	if _, err := s.articles.GetArticle(ctx, articleSlug); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:      userID,
		ArticleSlug: articleSlug,
		Content:     content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Reload with user data
	comment, err = s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}

	actor := Actor{ID: user.ID, Name: actorDisplayName(user)}
	_, err = s.notifications.NotifyMentions(ctx, content, actor, NotificationContext{
		Type:        models.ContextComment,
		ID:          comment.ID,
		ArticleSlug: &articleSlug,
	})
	if err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) GetArticleComments(ctx context.Context, articleSlug string, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	comments, total, err := s.commentRepo.GetByArticle(articleSlug, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comment))
	}

	return dto.NewPaginatedCommentResponse(responses, int(total), page, pageSize), nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID int64, userID string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != userID {
		return ErrNotCommentOwner
	}

	return s.commentRepo.Delete(commentID)
}
