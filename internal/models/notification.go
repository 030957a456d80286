package models

import "time"

type NotificationType string

const (
	NotificationInternalComment NotificationType = "internal_comment"
	NotificationExternalComment NotificationType = "external_comment"
	NotificationStatusUpdate    NotificationType = "status_update"
	NotificationAssignment      NotificationType = "assignment"
	NotificationReview          NotificationType = "review"
	NotificationRejection       NotificationType = "rejection"
)

// Notification is a persisted message for one user. Only IsRead changes after creation.
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID    int64            `gorm:"not null;index" json:"user_id,string"`
	Type      NotificationType `gorm:"size:30;not null" json:"type"`
	ReportID  int64            `gorm:"not null;index" json:"report_id,string"`
	CommentID *int64           `json:"comment_id,string,omitempty"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   *string          `gorm:"type:text" json:"message,omitempty"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}
