package models

import "time"

type Topic struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User    User         `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Replies []TopicReply `json:"replies,omitempty" gorm:"foreignKey:TopicID"`
}

func (Topic) TableName() string {
	return "topics"
}

type TopicReply struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TopicID   int64     `json:"topic_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index"` // set when replying to another reply
	Content   string    `json:"content" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Topic Topic `json:"-" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE;"`
}

func (TopicReply) TableName() string {
	return "topic_replies"
}
