package store

import (
	"context"

	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type categoryStore struct {
	db *gorm.DB
}

func newCategoryStore(db *gorm.DB) CategoryStore {
	return &categoryStore{db: db}
}

func (s *categoryStore) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryStore) Exists(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
