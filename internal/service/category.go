package service

import (
	"context"
	"log/slog"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/normalize"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// CategoryService manages prompt categories.
type CategoryService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCategoryRequest holds the fields of a new category.
type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Icon      string `json:"icon" validate:"omitempty,max=50"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdateCategoryRequest holds the fields to change; nil fields keep their value.
type UpdateCategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
	Icon      *string `json:"icon" validate:"omitempty,min=1,max=50"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// ListCategories returns all categories with their prompt counts.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.CategoryListItem, error) {
	return s.store.ListCategories(ctx)
}

// GetCategory returns a category by id.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// CreateCategory creates a category. Color, icon and sort order default when empty.
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error) {
	req.Name = normalize.Name(req.Name)
	req.Color = normalize.Color(req.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCategory(ctx, store.CategoryInput{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// UpdateCategory changes the provided fields of a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*domain.Category, error) {
	req.Name = normalizedPtr(req.Name, normalize.Name)
	req.Color = normalizedPtr(req.Color, normalize.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateCategory(ctx, id, store.CategoryUpdate{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id)
	return c, nil
}

// DeleteCategory deletes a category. Its prompts become uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// normalizedPtr applies fn to *p, keeping nil as nil.
func normalizedPtr(p *string, fn func(string) string) *string {
	if p == nil {
		return nil
	}
	v := fn(*p)
	return &v
}
