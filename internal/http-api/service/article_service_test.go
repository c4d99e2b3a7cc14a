package service

import (
	"context"
	"testing"

	"manahub/internal/cms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockArticleSource mocks the ArticleSource interface
type MockArticleSource struct {
	mock.Mock
}

func (m *MockArticleSource) GetArticle(ctx context.Context, slug string) (*cms.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cms.Article), args.Error(1)
}

func (m *MockArticleSource) ListArticles(ctx context.Context, page, pageSize int) ([]cms.Article, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cms.Article), args.Error(1)
}

func TestTrackRead_CreditsOnVerifiedArticle(t *testing.T) {
	mockArticles := new(MockArticleSource)
	mockMana := new(MockManaService)
	articleService := NewArticleService(mockArticles, mockMana)

	mockArticles.On("GetArticle", mock.Anything, "go-generics").
		Return(&cms.Article{Slug: "go-generics"}, nil)
	mockMana.On("Award", mock.Anything, "user-1", TriggerArticleRead, "go-generics").
		Return(&AwardResult{Awarded: true, Amount: 5, Balance: 5}, nil)

	result, err := articleService.TrackRead(context.Background(), "user-1", "go-generics")

	assert.NoError(t, err)
	assert.True(t, result.Awarded)
	assert.Equal(t, 5, result.Amount)
	mockArticles.AssertExpectations(t)
	mockMana.AssertExpectations(t)
}

func TestTrackRead_UnknownSlugMintsNothing(t *testing.T) {
	mockArticles := new(MockArticleSource)
	mockMana := new(MockManaService)
	articleService := NewArticleService(mockArticles, mockMana)

	mockArticles.On("GetArticle", mock.Anything, "bogus").Return(nil, cms.ErrNotFound)

	result, err := articleService.TrackRead(context.Background(), "user-1", "bogus")

	assert.Error(t, err)
	assert.Equal(t, ErrArticleNotFound, err)
	assert.Nil(t, result)
	mockMana.AssertNotCalled(t, "Award")
}

func TestGet_NotFound(t *testing.T) {
	mockArticles := new(MockArticleSource)
	articleService := NewArticleService(mockArticles, new(MockManaService))

	mockArticles.On("GetArticle", mock.Anything, "missing").Return(nil, cms.ErrNotFound)

	article, err := articleService.Get(context.Background(), "missing")

	assert.Error(t, err)
	assert.Equal(t, ErrArticleNotFound, err)
	assert.Nil(t, article)
}
