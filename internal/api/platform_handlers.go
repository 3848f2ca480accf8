package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

func (s *Server) registerPlatformRoutes() {
	register(s, huma.Operation{
		OperationID: "listAIPlatforms",
		Method:      http.MethodGet,
		Path:        "/api/ai-platforms",
		Summary:     "List AI platforms",
		Description: "Returns all AI platforms in sort order with their prompt usage counts",
		Tags:        []string{"AI Platforms"},
		Security:    bearerSecurity,
	}, s.handleListPlatforms)

	register(s, huma.Operation{
		OperationID: "createAIPlatform",
		Method:      http.MethodPost,
		Path:        "/api/ai-platforms",
		Summary:     "Create AI platform",
		Description: "Creates a platform, or returns the existing platform with the same name (200)",
		Tags:        []string{"AI Platforms"},
		Security:    bearerSecurity,
	}, s.handleCreatePlatform)

	register(s, huma.Operation{
		OperationID: "updateAIPlatform",
		Method:      http.MethodPut,
		Path:        "/api/ai-platforms/{id}",
		Summary:     "Update AI platform",
		Description: "Updates the provided fields of a platform",
		Tags:        []string{"AI Platforms"},
		Security:    bearerSecurity,
	}, s.handleUpdatePlatform)

	register(s, huma.Operation{
		OperationID: "deleteAIPlatform",
		Method:      http.MethodDelete,
		Path:        "/api/ai-platforms/{id}",
		Summary:     "Delete AI platform",
		Description: "Deletes a platform. Prompt links are removed and responses lose their platform.",
		Tags:        []string{"AI Platforms"},
		Security:    bearerSecurity,
	}, s.handleDeletePlatform)
}

// === DTOs ===

// ListPlatformsOutput wraps the platform list for Huma.
type ListPlatformsOutput struct {
	Body []domain.AIPlatformListItem
}

// CreatePlatformRequest is the request body for creating a platform.
type CreatePlatformRequest struct {
	_         struct{} `additionalProperties:"true"`
	Name      string   `json:"name" doc:"Platform name"`
	Color     string   `json:"color,omitempty" doc:"Hex color, defaults to #6366f1"`
	Icon      string   `json:"icon,omitempty" doc:"Icon name, defaults to bot"`
	SortOrder *int     `json:"sort_order,omitempty" doc:"Position, defaults to the end"`
}

// CreatePlatformInput wraps the create platform request for Huma.
type CreatePlatformInput struct {
	Body CreatePlatformRequest
}

// CreatePlatformOutput carries 201 for a new platform and 200 for an existing one.
type CreatePlatformOutput struct {
	Status int
	Body   *domain.AIPlatform
}

// UpdatePlatformRequest is the request body for updating a platform.
type UpdatePlatformRequest struct {
	_         struct{} `additionalProperties:"true"`
	Name      *string  `json:"name,omitempty" doc:"Platform name"`
	Color     *string  `json:"color,omitempty" doc:"Hex color"`
	Icon      *string  `json:"icon,omitempty" doc:"Icon name"`
	SortOrder *int     `json:"sort_order,omitempty" doc:"Position"`
}

// UpdatePlatformInput wraps the update platform request for Huma.
type UpdatePlatformInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Platform ID"`
	Body UpdatePlatformRequest
}

// PlatformOutput wraps a platform for Huma.
type PlatformOutput struct {
	Body *domain.AIPlatform
}

// === Handlers ===

func (s *Server) handleListPlatforms(ctx context.Context, _ *struct{}) (*ListPlatformsOutput, error) {
	platforms, err := s.services.Platform.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	return &ListPlatformsOutput{Body: nonNil(platforms)}, nil
}

func (s *Server) handleCreatePlatform(ctx context.Context, input *CreatePlatformInput) (*CreatePlatformOutput, error) {
	p, created, err := s.services.Platform.CreatePlatform(ctx, service.CreatePlatformRequest{
		Name:      input.Body.Name,
		Color:     input.Body.Color,
		Icon:      input.Body.Icon,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &CreatePlatformOutput{Status: status, Body: p}, nil
}

func (s *Server) handleUpdatePlatform(ctx context.Context, input *UpdatePlatformInput) (*PlatformOutput, error) {
	p, err := s.services.Platform.UpdatePlatform(ctx, input.ID, service.UpdatePlatformRequest{
		Name:      input.Body.Name,
		Color:     input.Body.Color,
		Icon:      input.Body.Icon,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}
	return &PlatformOutput{Body: p}, nil
}

func (s *Server) handleDeletePlatform(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Platform.DeletePlatform(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("AI platform deleted"), nil
}
