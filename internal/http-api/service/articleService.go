package service

import (
	"context"
	"errors"

	"manahub/internal/cms"
)

var ErrArticleNotFound = errors.New("article not found")

// ArticleSource is the slice of the CMS client that services consume.
type ArticleSource interface {
	GetArticle(ctx context.Context, slug string) (*cms.Article, error)
	ListArticles(ctx context.Context, page, pageSize int) ([]cms.Article, error)
}

type ArticleService interface {
	List(ctx context.Context, page, pageSize int) ([]cms.Article, error)
	Get(ctx context.Context, slug string) (*cms.Article, error)
	// TrackRead records that userID read the article. The first read of each
	// article credits mana; later reads are an AlreadyAwarded no-op.
	TrackRead(ctx context.Context, userID, slug string) (*AwardResult, error)
}

type articleService struct {
	articles    ArticleSource
	manaService ManaService
}

func NewArticleService(articles ArticleSource, manaService ManaService) ArticleService {
	return &articleService{
		articles:    articles,
		manaService: manaService,
	}
}

func (s *articleService) List(ctx context.Context, page, pageSize int) ([]cms.Article, error) {
	return s.articles.ListArticles(ctx, page, pageSize)
}

func (s *articleService) Get(ctx context.Context, slug string) (*cms.Article, error) {
	article, err := s.articles.GetArticle(ctx, slug)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) TrackRead(ctx context.Context, userID, slug string) (*AwardResult, error) {
	// Confirm the slug before crediting so a bogus slug can't mint mana.
	if _, err := s.articles.GetArticle(ctx, slug); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	return s.manaService.Award(ctx, userID, TriggerArticleRead, slug)
}
