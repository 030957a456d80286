package store

import (
	"context"

	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type commentStore struct {
	db *gorm.DB
}

func newCommentStore(db *gorm.DB) CommentStore {
	return &commentStore{db: db}
}

func (s *commentStore) Create(ctx context.Context, c *models.Comment) error {
	if c.ID == 0 {
		c.ID = id.New()
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *commentStore) ListByReport(ctx context.Context, reportID int64, internal bool) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("report_id = ? AND is_internal = ?", reportID, internal).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
