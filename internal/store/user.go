package store

import (
	"context"
	"errors"

	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type userStore struct {
	db *gorm.DB
}

func newUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").Preload("Company").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts the user and links the roles it carries. Roles must already exist.
func (s *userStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = id.New()
	}
	return s.db.WithContext(ctx).
		Omit("Roles.*", "Company").
		Create(user).Error
}

func (s *userStore) ExternalIDOf(ctx context.Context, userID int64) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("external_id").Where("id = ?", userID).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return user.ExternalID, nil
}

func (s *userStore) RolesByName(ctx context.Context, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	if len(names) == 0 {
		return roles, nil
	}
	if err := s.db.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *userStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles := make([]models.Role, 0)
	if err := s.db.WithContext(ctx).Preload("Office").Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
