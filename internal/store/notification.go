package store

import (
	"context"

	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type notificationStore struct {
	db *gorm.DB
}

func newNotificationStore(db *gorm.DB) NotificationStore {
	return &notificationStore{db: db}
}

func (s *notificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == 0 {
		n.ID = id.New()
	}
	n.IsRead = false
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *notificationStore) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]NotificationView, error) {
	query := s.db.WithContext(ctx).
		Table("notifications AS n").
		Select("n.*, r.title AS report_title, c.content AS comment_content").
		Joins("JOIN reports r ON r.id = n.report_id").
		Joins("LEFT JOIN comments c ON c.id = n.comment_id").
		Where("n.user_id = ?", userID)
	if unreadOnly {
		query = query.Where("n.is_read = ?", false)
	}

	views := make([]NotificationView, 0)
	if err := query.Order("n.created_at DESC, n.id DESC").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
