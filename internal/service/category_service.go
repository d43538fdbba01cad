package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// Category represents a category in the service layer. System defaults have
// no owner.
type Category struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
}

// CategoryService handles category read logic.
type CategoryService struct {
	storage *storage.Storage
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store *storage.Storage) *CategoryService {
	return &CategoryService{storage: store}
}

// ListCategories returns the user's categories plus the system defaults.
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	rows, err := s.storage.Categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	convertedCategories := make([]Category, len(rows))
	for i, row := range rows {
		convertedCategories[i] = Category{
			ID:        row.ID,
			UserID:    row.UserID,
			Name:      row.Name,
			Type:      string(row.Type),
			CreatedAt: row.CreatedAt,
		}
	}
	return convertedCategories, nil
}

// NameResolver loads the categories visible to the user and returns a lookup
// for analytics rollups. IDs outside the loaded set resolve as unknown.
func (s *CategoryService) NameResolver(ctx context.Context, userID uuid.UUID) (analytics.CategoryNameResolver, error) {
	rows, err := s.storage.Categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return func(categoryID uuid.UUID) (string, bool) {
		name, ok := names[categoryID]
		return name, ok
	}, nil
}
