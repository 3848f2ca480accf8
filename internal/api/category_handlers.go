package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	register(s, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/categories",
		Summary:     "List categories",
		Description: "Returns all categories with their prompt counts, in sort order",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleListCategories)

	register(s, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/categories/{id}",
		Summary:     "Get category",
		Description: "Returns a category by ID",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleGetCategory)

	register(s, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/categories",
		Summary:       "Create category",
		Description:   "Creates a category. Color, icon and sort order get defaults when omitted.",
		Tags:          []string{"Categories"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	register(s, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPut,
		Path:        "/api/categories/{id}",
		Summary:     "Update category",
		Description: "Updates the provided fields of a category",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleUpdateCategory)

	register(s, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category. Its prompts become uncategorized.",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleDeleteCategory)
}

// === DTOs ===

// ListCategoriesOutput wraps the category list for Huma.
type ListCategoriesOutput struct {
	Body []domain.CategoryListItem
}

// CategoryOutput wraps a category for Huma.
type CategoryOutput struct {
	Body *domain.Category
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	_         struct{} `additionalProperties:"true"`
	Name      string   `json:"name" doc:"Category name"`
	Color     string   `json:"color,omitempty" doc:"Hex color, defaults to #6366f1"`
	Icon      string   `json:"icon,omitempty" doc:"Icon name, defaults to folder"`
	SortOrder *int     `json:"sort_order,omitempty" doc:"Position, defaults to the end"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body CreateCategoryRequest
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	_         struct{} `additionalProperties:"true"`
	Name      *string  `json:"name,omitempty" doc:"Category name"`
	Color     *string  `json:"color,omitempty" doc:"Hex color"`
	Icon      *string  `json:"icon,omitempty" doc:"Icon name"`
	SortOrder *int     `json:"sort_order,omitempty" doc:"Position"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Category ID"`
	Body UpdateCategoryRequest
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.services.Category.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCategoriesOutput{Body: nonNil(categories)}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *IDInput) (*CategoryOutput, error) {
	c, err := s.services.Category.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Category.CreateCategory(ctx, service.CreateCategoryRequest{
		Name:      input.Body.Name,
		Color:     input.Body.Color,
		Icon:      input.Body.Icon,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Category.UpdateCategory(ctx, input.ID, service.UpdateCategoryRequest{
		Name:      input.Body.Name,
		Color:     input.Body.Color,
		Icon:      input.Body.Icon,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Category.DeleteCategory(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("category deleted"), nil
}
