package store

import (
	"context"
	"errors"

	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type refreshTokenStore struct {
	db *gorm.DB
}

func newRefreshTokenStore(db *gorm.DB) RefreshTokenStore {
	return &refreshTokenStore{db: db}
}

func (s *refreshTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *refreshTokenStore) FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := s.db.WithContext(ctx).Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (s *refreshTokenStore) Revoke(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
