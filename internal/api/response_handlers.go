package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func (s *Server) registerResponseRoutes() {
	register(s, huma.Operation{
		OperationID: "listAIResponses",
		Method:      http.MethodGet,
		Path:        "/api/ai-responses",
		Summary:     "List AI responses",
		Description: "Returns saved AI responses with platform, source prompt and tags, newest change first",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleListResponses)

	register(s, huma.Operation{
		OperationID: "listAIResponseTopics",
		Method:      http.MethodGet,
		Path:        "/api/ai-responses/topics",
		Summary:     "List topics",
		Description: "Returns the distinct non-empty response topics in ascending order",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleListTopics)

	register(s, huma.Operation{
		OperationID: "getAIResponse",
		Method:      http.MethodGet,
		Path:        "/api/ai-responses/{id}",
		Summary:     "Get AI response",
		Description: "Returns a response with its platform, source prompt and tags",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleGetResponse)

	register(s, huma.Operation{
		OperationID:   "createAIResponse",
		Method:        http.MethodPost,
		Path:          "/api/ai-responses",
		Summary:       "Create AI response",
		Description:   "Saves an AI response with its tags",
		Tags:          []string{"AI Responses"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateResponse)

	register(s, huma.Operation{
		OperationID: "updateAIResponse",
		Method:      http.MethodPut,
		Path:        "/api/ai-responses/{id}",
		Summary:     "Update AI response",
		Description: "Updates a response. Platform, prompt, topic and notes are always written; tags replace the links only when present.",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleUpdateResponse)

	register(s, huma.Operation{
		OperationID: "toggleAIResponseFavorite",
		Method:      http.MethodPost,
		Path:        "/api/ai-responses/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag of a response",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleToggleFavorite)

	register(s, huma.Operation{
		OperationID: "deleteAIResponse",
		Method:      http.MethodDelete,
		Path:        "/api/ai-responses/{id}",
		Summary:     "Delete AI response",
		Description: "Deletes a response and its tag links",
		Tags:        []string{"AI Responses"},
		Security:    bearerSecurity,
	}, s.handleDeleteResponse)
}

// === DTOs ===

// ListResponsesInput contains the response list filters.
type ListResponsesInput struct {
	AIPlatformID int64  `query:"ai_platform_id" doc:"Only responses from this platform"`
	TagID        int64  `query:"tag_id" doc:"Only responses with this tag"`
	Topic        string `query:"topic" doc:"Exact topic"`
	IsFavorite   string `query:"is_favorite" doc:"true for favorites only"`
	Search       string `query:"search" doc:"Substring of title, content or topic"`
}

// ListResponsesOutput wraps the response list for Huma.
type ListResponsesOutput struct {
	Body []domain.AIResponseListItem
}

// TopicsOutput wraps the topic list for Huma.
type TopicsOutput struct {
	Body []string
}

// ResponseDetailOutput wraps a response detail for Huma.
type ResponseDetailOutput struct {
	Body *domain.AIResponseDetail
}

// ResponseOutput wraps a response row for Huma.
type ResponseOutput struct {
	Body *domain.AIResponse
}

// CreateResponseRequest is the request body for saving an AI response.
type CreateResponseRequest struct {
	_            struct{} `additionalProperties:"true"`
	Title        string   `json:"title" doc:"Response title"`
	Content      string   `json:"content,omitempty" doc:"Response text"`
	AIPlatformID *int64   `json:"ai_platform_id,omitempty" nullable:"true" doc:"Platform that produced it"`
	PromptID     *int64   `json:"prompt_id,omitempty" nullable:"true" doc:"Prompt that produced it"`
	Topic        *string  `json:"topic,omitempty" nullable:"true" doc:"Research topic"`
	Notes        *string  `json:"notes,omitempty" nullable:"true" doc:"Free-form notes"`
	IsFavorite   bool     `json:"is_favorite,omitempty" doc:"Favorite flag"`
	Tags         []int64  `json:"tags,omitempty" doc:"Tag IDs"`
}

// CreateResponseInput wraps the create response request for Huma.
type CreateResponseInput struct {
	Body CreateResponseRequest
}

// UpdateResponseRequest is the request body for updating an AI response.
type UpdateResponseRequest struct {
	_            struct{} `additionalProperties:"true"`
	Title        *string  `json:"title,omitempty" doc:"Response title"`
	Content      *string  `json:"content,omitempty" doc:"Response text"`
	AIPlatformID *int64   `json:"ai_platform_id,omitempty" nullable:"true" doc:"Platform; omitted or null clears it"`
	PromptID     *int64   `json:"prompt_id,omitempty" nullable:"true" doc:"Prompt; omitted or null clears it"`
	Topic        *string  `json:"topic,omitempty" nullable:"true" doc:"Topic; omitted or null clears it"`
	Notes        *string  `json:"notes,omitempty" nullable:"true" doc:"Notes; omitted or null clears them"`
	IsFavorite   *bool    `json:"is_favorite,omitempty" doc:"Favorite flag"`
	Tags         IDSet   `json:"tags,omitempty" doc:"Tag IDs; replaces all tags when present; null clears"`
}

// UpdateResponseInput wraps the update response request for Huma.
type UpdateResponseInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Response ID"`
	Body UpdateResponseRequest
}

// === Handlers ===

func (s *Server) handleListResponses(ctx context.Context, input *ListResponsesInput) (*ListResponsesOutput, error) {
	f := store.ResponseFilter{
		AIPlatformID:  optionalID(input.AIPlatformID),
		TagID:         optionalID(input.TagID),
		FavoritesOnly: input.IsFavorite == "true" || input.IsFavorite == "1",
		Search:        input.Search,
	}
	if input.Topic != "" {
		f.Topic = &input.Topic
	}

	responses, err := s.services.Response.ListResponses(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResponsesOutput{Body: nonNil(responses)}, nil
}

func (s *Server) handleListTopics(ctx context.Context, _ *struct{}) (*TopicsOutput, error) {
	topics, err := s.services.Response.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	return &TopicsOutput{Body: nonNil(topics)}, nil
}

func (s *Server) handleGetResponse(ctx context.Context, input *IDInput) (*ResponseDetailOutput, error) {
	r, err := s.services.Response.GetResponse(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ResponseDetailOutput{Body: r}, nil
}

func (s *Server) handleCreateResponse(ctx context.Context, input *CreateResponseInput) (*ResponseOutput, error) {
	r, err := s.services.Response.CreateResponse(ctx, service.CreateResponseRequest{
		Title:        input.Body.Title,
		Content:      input.Body.Content,
		AIPlatformID: input.Body.AIPlatformID,
		PromptID:     input.Body.PromptID,
		Topic:        input.Body.Topic,
		Notes:        input.Body.Notes,
		IsFavorite:   input.Body.IsFavorite,
		TagIDs:       input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &ResponseOutput{Body: r}, nil
}

func (s *Server) handleUpdateResponse(ctx context.Context, input *UpdateResponseInput) (*ResponseOutput, error) {
	r, err := s.services.Response.UpdateResponse(ctx, input.ID, service.UpdateResponseRequest{
		Title:        input.Body.Title,
		Content:      input.Body.Content,
		AIPlatformID: input.Body.AIPlatformID,
		PromptID:     input.Body.PromptID,
		Topic:        input.Body.Topic,
		Notes:        input.Body.Notes,
		IsFavorite:   input.Body.IsFavorite,
		TagIDs:       input.Body.Tags.replacement(),
	})
	if err != nil {
		return nil, err
	}
	return &ResponseOutput{Body: r}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *IDInput) (*ResponseOutput, error) {
	r, err := s.services.Response.ToggleFavorite(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ResponseOutput{Body: r}, nil
}

func (s *Server) handleDeleteResponse(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Response.DeleteResponse(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("AI response deleted"), nil
}
