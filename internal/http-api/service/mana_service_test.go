package service

import (
	"context"
	"testing"

	"manahub/internal/http-api/models"
	"manahub/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeManaLogStore mirrors the repository contract in memory: one append plus
// one balance update per successful award, and a conflict on (user, dedup key)
// leaves everything untouched.
type fakeManaLogStore struct {
	balances map[string]int
	entries  []models.ManaLog
}

func newFakeManaLogStore(userIDs ...string) *fakeManaLogStore {
	balances := make(map[string]int, len(userIDs))
	for _, id := range userIDs {
		balances[id] = 0
	}
	return &fakeManaLogStore{balances: balances}
}

func (f *fakeManaLogStore) Award(ctx context.Context, userID string, amount int, reason string, dedupKey *string) (*repository.AwardOutcome, error) {
	balance, ok := f.balances[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if dedupKey != nil {
		for _, entry := range f.entries {
			if entry.UserID == userID && entry.DedupKey != nil && *entry.DedupKey == *dedupKey {
				return &repository.AwardOutcome{Awarded: false, Balance: balance}, nil
			}
		}
	}

	f.entries = append(f.entries, models.ManaLog{
		UserID:   userID,
		Amount:   amount,
		Reason:   reason,
		DedupKey: dedupKey,
	})
	f.balances[userID] = balance + amount
	return &repository.AwardOutcome{Awarded: true, Balance: balance + amount}, nil
}

func (f *fakeManaLogStore) HasAward(ctx context.Context, userID, dedupKey string) (bool, error) {
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DedupKey != nil && *entry.DedupKey == dedupKey {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeManaLogStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.ManaLog, error) {
	var logs []models.ManaLog
	for _, entry := range f.entries {
		if entry.UserID == userID {
			logs = append(logs, entry)
		}
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (f *fakeManaLogStore) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	for _, entry := range f.entries {
		if entry.UserID == userID {
			sum += int64(entry.Amount)
		}
	}
	return sum, nil
}

func TestAward_ArticleRead(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))

	result, err := manaService.Award(context.Background(), "user-1", TriggerArticleRead, "go-generics")

	assert.NoError(t, err)
	assert.True(t, result.Awarded)
	assert.Equal(t, 5, result.Amount)
	assert.Equal(t, 5, result.Balance)
	assert.Len(t, store.entries, 1)
	assert.Equal(t, "article_read:go-generics", *store.entries[0].DedupKey)
	assert.Equal(t, "Read article go-generics", store.entries[0].Reason)
}

func TestAward_ArticleReadOncePerArticle(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))
	ctx := context.Background()

	first, err := manaService.Award(ctx, "user-1", TriggerArticleRead, "go-generics")
	assert.NoError(t, err)
	assert.True(t, first.Awarded)

	// Same article again: no-op, balance unchanged, no new ledger row.
	second, err := manaService.Award(ctx, "user-1", TriggerArticleRead, "go-generics")
	assert.NoError(t, err)
	assert.False(t, second.Awarded)
	assert.Equal(t, 0, second.Amount)
	assert.Equal(t, 5, second.Balance)
	assert.Len(t, store.entries, 1)

	// A different article pays again.
	third, err := manaService.Award(ctx, "user-1", TriggerArticleRead, "channels-101")
	assert.NoError(t, err)
	assert.True(t, third.Awarded)
	assert.Equal(t, 10, third.Balance)
	assert.Len(t, store.entries, 2)
}

func TestAward_FirstRatingAmount(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))

	result, err := manaService.Award(context.Background(), "user-1", TriggerFirstRating, "go-generics")

	assert.NoError(t, err)
	assert.True(t, result.Awarded)
	assert.Equal(t, 10, result.Amount)
	assert.Equal(t, "first_rating:go-generics", *store.entries[0].DedupKey)
}

func TestAward_TopicCreatedRepeats(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))
	ctx := context.Background()

	// Topic creation has no per-subject cap, even for an identical title.
	for i := 0; i < 3; i++ {
		result, err := manaService.Award(ctx, "user-1", TriggerTopicCreated, "Weekly thread")
		assert.NoError(t, err)
		assert.True(t, result.Awarded)
		assert.Equal(t, 100, result.Amount)
	}

	assert.Len(t, store.entries, 3)
	assert.Equal(t, 300, store.balances["user-1"])
	assert.Nil(t, store.entries[0].DedupKey)
}

func TestAward_UnknownUser(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))

	result, err := manaService.Award(context.Background(), "ghost", TriggerArticleRead, "go-generics")

	assert.Error(t, err)
	assert.Equal(t, ErrUserNotFound, err)
	assert.Nil(t, result)
	assert.Empty(t, store.entries)
}

func TestAward_UnknownTrigger(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))

	result, err := manaService.Award(context.Background(), "user-1", ManaTrigger("coffee_break"), "x")

	assert.Error(t, err)
	assert.Equal(t, ErrUnknownTrigger, err)
	assert.Nil(t, result)
}

func TestAward_LedgerMatchesBalance(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	manaService := NewManaService(store, new(MockUserRepository))
	ctx := context.Background()

	awards := []struct {
		trigger ManaTrigger
		subject string
	}{
		{TriggerArticleRead, "go-generics"},
		{TriggerFirstRating, "go-generics"},
		{TriggerArticleRead, "go-generics"}, // duplicate, no-op
		{TriggerTopicCreated, "Weekly thread"},
		{TriggerArticleRead, "channels-101"},
		{TriggerTopicCreated, "Weekly thread"},
		{TriggerFirstRating, "go-generics"}, // duplicate, no-op
	}

	// After every award the ledger sum must equal the running balance.
	for _, a := range awards {
		result, err := manaService.Award(ctx, "user-1", a.trigger, a.subject)
		assert.NoError(t, err)

		sum, err := store.SumByUser(ctx, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, sum, int64(result.Balance))
		assert.Equal(t, sum, int64(store.balances["user-1"]))
	}

	assert.Equal(t, 220, store.balances["user-1"])
	assert.Len(t, store.entries, 5)
}

func TestGetBalance(t *testing.T) {
	store := newFakeManaLogStore("user-1")
	mockUserRepo := new(MockUserRepository)
	manaService := NewManaService(store, mockUserRepo)
	ctx := context.Background()

	_, err := manaService.Award(ctx, "user-1", TriggerArticleRead, "go-generics")
	assert.NoError(t, err)
	_, err = manaService.Award(ctx, "user-1", TriggerTopicCreated, "Weekly thread")
	assert.NoError(t, err)

	mockUserRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1", Mana: 105}, nil)

	balance, err := manaService.GetBalance(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 105, balance.Balance)
	assert.Len(t, balance.History, 2)
	mockUserRepo.AssertExpectations(t)
}

func TestGetBalance_UnknownUser(t *testing.T) {
	store := newFakeManaLogStore()
	mockUserRepo := new(MockUserRepository)
	manaService := NewManaService(store, mockUserRepo)

	mockUserRepo.On("FindByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

	balance, err := manaService.GetBalance(context.Background(), "ghost")

	assert.Error(t, err)
	assert.Equal(t, ErrUserNotFound, err)
	assert.Nil(t, balance)
	mockUserRepo.AssertExpectations(t)
}
