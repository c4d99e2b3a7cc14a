package service

import (
	"context"
	"errors"
	"fmt"

	"manahub/internal/http-api/dto"
	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"

	"gorm.io/gorm"
)

// ManaTrigger identifies an awardable action in the catalog.
type ManaTrigger string

const (
	TriggerArticleRead  ManaTrigger = "article_read"
	TriggerFirstRating  ManaTrigger = "first_rating"
	TriggerTopicCreated ManaTrigger = "topic_created"
)

// manaAward is one catalog row: the credit amount, whether the trigger pays
// at most once per (account, subject), and the display reason template.
type manaAward struct {
	Amount         int
	OncePerSubject bool
	Reason         string // one %s verb for the subject
}

// manaCatalog is the single table every award site consults. Policy changes
// (amounts, new triggers) happen here and nowhere else.
var manaCatalog = map[ManaTrigger]manaAward{
	TriggerArticleRead:  {Amount: 5, OncePerSubject: true, Reason: "Read article %s"},
	TriggerFirstRating:  {Amount: 10, OncePerSubject: true, Reason: "First rating for %s"},
	TriggerTopicCreated: {Amount: 100, Reason: "Created forum topic %s"},
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUnknownTrigger = errors.New("unknown mana trigger")
)

// AwardResult is the outcome of one Award call. Awarded=false with Amount=0
// is the normal "already awarded" no-op, not a failure.
type AwardResult struct {
	Awarded bool `json:"awarded"`
	Amount  int  `json:"amount"`
	Balance int  `json:"balance"`
}

type ManaService interface {
	// Award credits userID per the catalog entry for trigger. For
	// once-per-subject triggers a repeat call with the same subject is a
	// no-op returning AwardResult{Awarded: false}.
	Award(ctx context.Context, userID string, trigger ManaTrigger, subject string) (*AwardResult, error)
	GetBalance(ctx context.Context, userID string) (*dto.ManaBalanceResponse, error)
}

type manaService struct {
	manaRepo repository.ManaLogRepository
	userRepo repository.UserRepository
}

func NewManaService(manaRepo repository.ManaLogRepository, userRepo repository.UserRepository) ManaService {
	return &manaService{
		manaRepo: manaRepo,
		userRepo: userRepo,
	}
}

func (s *manaService) Award(ctx context.Context, userID string, trigger ManaTrigger, subject string) (*AwardResult, error) {
	award, ok := manaCatalog[trigger]
	if !ok {
		return nil, ErrUnknownTrigger
	}

	// Stable identity for the one-time check; the human-readable reason is
	// display-only and never used for lookups.
	var dedupKey *string
	if award.OncePerSubject {
		key := fmt.Sprintf("%s:%s", trigger, subject)
		dedupKey = &key
	}
	reason := fmt.Sprintf(award.Reason, subject)

	outcome, err := s.manaRepo.Award(ctx, userID, award.Amount, reason, dedupKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	result := &AwardResult{
		Awarded: outcome.Awarded,
		Balance: outcome.Balance,
	}
	if outcome.Awarded {
		result.Amount = award.Amount
	}
	return result, nil
}

func (s *manaService) GetBalance(ctx context.Context, userID string) (*dto.ManaBalanceResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logs, err := s.manaRepo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, err
	}

	return dto.NewManaBalanceResponse(user.Mana, logs), nil
}

// actorDisplayName picks the mention handle to snapshot on notifications.
func actorDisplayName(user *models.User) string {
	if user.DisplayName != nil && *user.DisplayName != "" {
		return *user.DisplayName
	}
	return user.Username
}
