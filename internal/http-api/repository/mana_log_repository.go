package repository

import (
	"context"

	"manahub/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AwardOutcome reports what a single Award call did to the store.
// Awarded=false with a nil error means the dedup key already had a row
// (the "already awarded" no-op result, not a failure).
type AwardOutcome struct {
	Awarded bool
	Balance int
}

type ManaLogRepository interface {
	// Award appends one ledger row and applies the balance delta in a single
	// transaction. When dedupKey is non-nil the insert is conditional on the
	// (user_id, dedup_key) unique index; a conflict leaves the store untouched.
	Award(ctx context.Context, userID string, amount int, reason string, dedupKey *string) (*AwardOutcome, error)
	HasAward(ctx context.Context, userID, dedupKey string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ManaLog, error)
	SumByUser(ctx context.Context, userID string) (int64, error)
}

type manaLogRepository struct {
	db *gorm.DB
}

func NewManaLogRepository(db *gorm.DB) ManaLogRepository {
	return &manaLogRepository{db: db}
}

func (r *manaLogRepository) Award(ctx context.Context, userID string, amount int, reason string, dedupKey *string) (*AwardOutcome, error) {
	outcome := &AwardOutcome{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "mana").First(&user, "id = ?", userID).Error; err != nil {
			return err // gorm.ErrRecordNotFound for unknown accounts
		}

		entry := &models.ManaLog{
			UserID:   userID,
			Amount:   amount,
			Reason:   reason,
			DedupKey: dedupKey,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "dedup_key"}},
			DoNothing: true,
		}).Create(entry)
		if res.Error != nil {
			return res.Error
		}

		// Conflict on the dedup index: the trigger already paid out once.
		if dedupKey != nil && res.RowsAffected == 0 {
			outcome.Balance = user.Mana
			return nil
		}

		upd := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("mana", gorm.Expr("mana + ?", amount))
		if upd.Error != nil {
			return upd.Error
		}

		outcome.Awarded = true
		outcome.Balance = user.Mana + amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *manaLogRepository) HasAward(ctx context.Context, userID, dedupKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ManaLog{}).
		Where("user_id = ? AND dedup_key = ?", userID, dedupKey).
		Count(&count).Error
	return count > 0, err
}

func (r *manaLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ManaLog, error) {
	var logs []models.ManaLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *manaLogRepository) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum struct {
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ManaLog{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum.Total, err
}
