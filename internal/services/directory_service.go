package services

import (
	"context"
	"fmt"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// DirectoryService exposes staff and category lookups to the HTTP layer.
type DirectoryService struct {
	directory  store.OperatorDirectory
	categories store.CategoryStore
}

func NewDirectoryService(directory store.OperatorDirectory, categories store.CategoryStore) *DirectoryService {
	return &DirectoryService{directory: directory, categories: categories}
}

func (s *DirectoryService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *DirectoryService) Operators(ctx context.Context) ([]models.User, error) {
	operators, err := s.directory.ListOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return operators, nil
}

// OperatorsForCategory lists the technical officers whose office covers categoryID.
func (s *DirectoryService) OperatorsForCategory(ctx context.Context, categoryID int64) ([]models.User, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	operators, err := s.directory.ListOperatorsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list operators by category: %w", err)
	}
	return operators, nil
}

func (s *DirectoryService) ExternalMaintainers(ctx context.Context, filter store.MaintainerFilter) ([]models.User, error) {
	if filter.CategoryID != nil {
		if err := s.requireCategory(ctx, *filter.CategoryID); err != nil {
			return nil, err
		}
	}
	maintainers, err := s.directory.ListExternalMaintainers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list external maintainers: %w", err)
	}
	return maintainers, nil
}

func (s *DirectoryService) requireCategory(ctx context.Context, categoryID int64) error {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}
