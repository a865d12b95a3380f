package models

import "time"

// Notification types created by the notification service.
const (
	NotificationTypeLike         = "like"
	NotificationTypeComment      = "comment"
	NotificationTypePostReport   = "post_report"
	NotificationTypeViolation    = "content_violation"
	NotificationTypeAdminMessage = "admin_message"
	NotificationTypeAnnouncement = "admin_announcement"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id"`                  // post ID, comment ID, etc.
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, comment, user
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Data        string    `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// BroadcastRequest defines the request body for an admin broadcast
type BroadcastRequest struct {
	Title    string `json:"title" validate:"required,min=1"`
	Message  string `json:"message" validate:"required,min=1"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// DirectNotifyRequest defines the request body for notifying a single user
type DirectNotifyRequest struct {
	UserID   uint   `json:"userId" validate:"required"`
	Title    string `json:"title" validate:"required,min=1"`
	Message  string `json:"message" validate:"required,min=1"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// ViolationNoticeRequest defines the request body for a content violation notice
type ViolationNoticeRequest struct {
	UserID          uint   `json:"userId" validate:"required"`
	PostID          string `json:"postId" validate:"required"`
	ViolationReason string `json:"violationReason" validate:"required"`
	AdminMessage    string `json:"adminMessage" validate:"required"`
}
