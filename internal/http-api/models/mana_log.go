package models

import "time"

// ManaLog is an immutable audit row for a single mana credit.
// Rows are only ever inserted, in the same transaction as the balance update.
type ManaLog struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_mana_logs_user_dedup"`
	Amount int    `json:"amount" gorm:"not null"`
	Reason string `json:"reason" gorm:"not null;type:text"` // display only, never used for lookups

	// DedupKey is the stable one-time-trigger identity ("article_read:<slug>").
	// Null for unbounded triggers. The composite unique index is what makes a
	// duplicate award impossible under concurrent requests.
	DedupKey *string `json:"dedup_key,omitempty" gorm:"size:255;uniqueIndex:idx_mana_logs_user_dedup"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (ManaLog) TableName() string {
	return "mana_logs"
}
