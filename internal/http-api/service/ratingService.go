package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"manahub/internal/cache"
	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"

	"gorm.io/gorm"
)

const (
	minScore = 10
	maxScore = 100

	ratingSummaryTTL = 10 * time.Minute
)

var (
	ErrSubjectRequired = errors.New("article slug is required")
	ErrRatingNotFound  = errors.New("rating not found")
)

type RatingService interface {
	// SubmitRating stores the (user, article) score, overwriting an earlier
	// one. The first submission for the pair triggers a mana credit.
	SubmitRating(ctx context.Context, userID, articleSlug string, score float64, platform *string) (*dto.SubmitRatingResponse, error)
	// GetSummary computes the aggregate view; userID may be empty for
	// anonymous readers, in which case the own-rating fields stay null.
	GetSummary(ctx context.Context, articleSlug, userID string) (*dto.RatingSummaryResponse, error)
	DeleteRating(ctx context.Context, userID, articleSlug string) error
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	manaService ManaService
	cache       *cache.Cache
}

func NewRatingService(ratingRepo repository.RatingRepository, manaService ManaService, c *cache.Cache) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		manaService: manaService,
		cache:       c,
	}
}

// clampScore rounds first, then clamps: 105.6 rounds to 106 and clamps to
// 100; 42.5 rounds to 43 and stays.
func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < minScore {
		return minScore
	}
	if rounded > maxScore {
		return maxScore
	}
	return rounded
}

func (s *ratingService) SubmitRating(ctx context.Context, userID, articleSlug string, score float64, platform *string) (*dto.SubmitRatingResponse, error) {
	if strings.TrimSpace(articleSlug) == "" {
		return nil, ErrSubjectRequired
	}

	clamped := clampScore(score)

	// First-time check happens strictly before the upsert; the ledger's
	// dedup index makes a double credit impossible even if two submissions
	// race past this read.
	_, err := s.ratingRepo.FindByUserAndSubject(userID, articleSlug)
	firstTime := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !firstTime {
		return nil, err
	}

	rating := &models.Rating{
		UserID:      userID,
		ArticleSlug: articleSlug,
		Score:       clamped,
		Platform:    platform,
	}
	if err := s.ratingRepo.Upsert(rating); err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, articleSlug)

	resp := &dto.SubmitRatingResponse{
		Score:    clamped,
		Platform: platform,
	}

	if firstTime {
		award, err := s.manaService.Award(ctx, userID, TriggerFirstRating, articleSlug)
		if err != nil {
			return nil, err
		}
		resp.FirstRating = award.Awarded
		resp.ManaAwarded = award.Amount
		resp.ManaBalance = award.Balance
	}

	return resp, nil
}

func (s *ratingService) GetSummary(ctx context.Context, articleSlug, userID string) (*dto.RatingSummaryResponse, error) {
	if strings.TrimSpace(articleSlug) == "" {
		return nil, ErrSubjectRequired
	}

	summary, err := s.loadSummary(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	// Own rating is per-caller, so it stays outside the cached aggregate.
	if userID != "" {
		rating, err := s.ratingRepo.FindByUserAndSubject(userID, articleSlug)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if rating != nil {
			summary.UserScore = &rating.Score
			summary.UserPlatform = rating.Platform
		}
	}

	return summary, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, userID, articleSlug string) error {
	if err := s.ratingRepo.Delete(userID, articleSlug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}
	s.invalidateSummary(ctx, articleSlug)
	return nil
}

func (s *ratingService) loadSummary(ctx context.Context, articleSlug string) (*dto.RatingSummaryResponse, error) {
	cacheKey := "ratings:summary:" + articleSlug

	var cached dto.RatingSummaryResponse
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	agg, err := s.ratingRepo.AggregateBySubject(articleSlug)
	if err != nil {
		return nil, err
	}
	platforms, err := s.ratingRepo.PlatformCounts(articleSlug)
	if err != nil {
		return nil, err
	}

	summary := &dto.RatingSummaryResponse{
		Average:   int(math.Round(agg.Average)),
		Count:     agg.Count,
		Platforms: platforms,
	}
	if summary.Count == 0 {
		summary.Average = 0
	}

	_ = s.cache.SetJSON(ctx, cacheKey, summary, ratingSummaryTTL)
	return summary, nil
}

func (s *ratingService) invalidateSummary(ctx context.Context, articleSlug string) {
	_ = s.cache.Delete(ctx, "ratings:summary:"+articleSlug)
}
