package models

import "time"

type NotificationType string

const (
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeReply   NotificationType = "reply"
)

// Context classifications for the content that triggered a notification.
const (
	ContextComment    = "comment"
	ContextForumTopic = "forum_topic"
	ContextForumReply = "forum_reply"
)

type Notification struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_notifications_dedup" json:"user_id"` // recipient
	Type        NotificationType `gorm:"size:20;not null;uniqueIndex:idx_notifications_dedup" json:"type"`
	ActorID     string           `gorm:"type:uuid;not null" json:"actor_id"`
	ActorName   string           `gorm:"size:100;not null" json:"actor_name"` // display name snapshot at emit time
	ContextType string           `gorm:"size:20;not null;uniqueIndex:idx_notifications_dedup" json:"context_type"`
	ContextID   int64            `gorm:"not null;uniqueIndex:idx_notifications_dedup" json:"context_id"`
	ArticleSlug *string          `gorm:"size:255" json:"article_slug,omitempty"`
	TopicID     *int64           `json:"topic_id,omitempty"`
	Read        bool             `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations - pointers to avoid recursion
	User  *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
