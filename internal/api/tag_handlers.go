package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	register(s, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Description: "Returns all tags by name with the number of prompts using each",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleListTags)

	register(s, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/tags",
		Summary:     "Create tag",
		Description: "Creates a tag, or returns the existing tag with the same name (200)",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleCreateTag)

	register(s, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPut,
		Path:        "/api/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames or recolors a tag",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleUpdateTag)

	register(s, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and all of its associations",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body []domain.TagListItem
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	_     struct{} `additionalProperties:"true"`
	Name  string   `json:"name" doc:"Tag name"`
	Color string   `json:"color,omitempty" doc:"Hex color, defaults to #8b5cf6"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// CreateTagOutput carries 201 for a new tag and 200 for an existing one.
type CreateTagOutput struct {
	Status int
	Body   *domain.Tag
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	_     struct{} `additionalProperties:"true"`
	Name  *string  `json:"name,omitempty" doc:"Tag name"`
	Color *string  `json:"color,omitempty" doc:"Hex color"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Tag ID"`
	Body UpdateTagRequest
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{Body: nonNil(tags)}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*CreateTagOutput, error) {
	t, created, err := s.services.Tag.CreateTag(ctx, service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &CreateTagOutput{Status: status, Body: t}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.services.Tag.UpdateTag(ctx, input.ID, service.UpdateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("tag deleted"), nil
}
