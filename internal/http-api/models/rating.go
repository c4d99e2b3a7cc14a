package models

import "time"

type Rating struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_subject"`
	ArticleSlug string  `json:"article_slug" gorm:"size:255;not null;index;uniqueIndex:idx_ratings_user_subject"`
	Score       int     `json:"score" gorm:"not null;check:score >= 10 AND score <= 100"`
	Platform    *string `json:"platform,omitempty" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
