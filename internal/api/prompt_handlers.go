package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func (s *Server) registerPromptRoutes() {
	register(s, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/api/prompts",
		Summary:     "List prompts",
		Description: "Returns prompts with category, tags, platforms and child counts, newest change first. All filters combine with AND.",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleListPrompts)

	register(s, huma.Operation{
		OperationID: "searchPrompts",
		Method:      http.MethodGet,
		Path:        "/api/prompts/search",
		Summary:     "Quick search prompts",
		Description: "Returns up to 50 prompts whose title or content contains q, most used first",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleSearchPrompts)

	register(s, huma.Operation{
		OperationID: "getPrompt",
		Method:      http.MethodGet,
		Path:        "/api/prompts/{id}",
		Summary:     "Get prompt",
		Description: "Returns a prompt with tags, children, parent, attachments and AI platforms",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleGetPrompt)

	register(s, huma.Operation{
		OperationID: "listPromptChildren",
		Method:      http.MethodGet,
		Path:        "/api/prompts/{id}/children",
		Summary:     "List prompt variants",
		Description: "Returns the direct children of a prompt, oldest first",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleListPromptChildren)

	register(s, huma.Operation{
		OperationID:   "createPrompt",
		Method:        http.MethodPost,
		Path:          "/api/prompts",
		Summary:       "Create prompt",
		Description:   "Creates a prompt with its tag and AI platform links",
		Tags:          []string{"Prompts"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePrompt)

	register(s, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPut,
		Path:        "/api/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Updates a prompt. category_id and parent_id are always written; tags and ai_platforms replace the links only when present.",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleUpdatePrompt)

	register(s, huma.Operation{
		OperationID: "copyPrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts/{id}/copy",
		Summary:     "Record prompt copy",
		Description: "Increments the use count of a prompt by one",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleCopyPrompt)

	register(s, huma.Operation{
		OperationID: "copyPrompts",
		Method:      http.MethodPost,
		Path:        "/api/prompts/copy",
		Summary:     "Record copies of several prompts",
		Description: "Increments the use count of every listed prompt by one, all or nothing",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleCopyPrompts)

	register(s, huma.Operation{
		OperationID: "deletePrompt",
		Method:      http.MethodDelete,
		Path:        "/api/prompts/{id}",
		Summary:     "Delete prompt",
		Description: "Deletes a prompt with its attachments. Its children become top-level prompts.",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleDeletePrompt)
}

// === DTOs ===

// ListPromptsInput contains the prompt list filters.
type ListPromptsInput struct {
	CategoryID      int64  `query:"category_id" doc:"Only prompts in this category"`
	TagID           int64  `query:"tag_id" doc:"Only prompts with this tag"`
	AIPlatformID    int64  `query:"ai_platform_id" doc:"Only prompts linked to this platform"`
	IsBuildingBlock string `query:"is_building_block" doc:"true for building blocks only, false to exclude them"`
	ParentID        string `query:"parent_id" doc:"null for top-level prompts, or a parent ID"`
	Search          string `query:"search" doc:"Substring of title or content"`
}

// ListPromptsOutput wraps the prompt list for Huma.
type ListPromptsOutput struct {
	Body []domain.PromptListItem
}

// SearchPromptsInput contains the quick search term.
type SearchPromptsInput struct {
	Q string `query:"q" doc:"Substring of title or content"`
}

// SearchPromptsOutput wraps quick search hits for Huma.
type SearchPromptsOutput struct {
	Body []domain.PromptSearchResult
}

// PromptDetailOutput wraps a prompt detail for Huma.
type PromptDetailOutput struct {
	Body *domain.PromptDetail
}

// PromptChildrenOutput wraps a prompt's children for Huma.
type PromptChildrenOutput struct {
	Body []domain.PromptChild
}

// PromptOutput wraps a prompt row for Huma.
type PromptOutput struct {
	Body *domain.Prompt
}

// CreatePromptRequest is the request body for creating a prompt.
type CreatePromptRequest struct {
	_               struct{} `additionalProperties:"true"`
	Title           string   `json:"title" doc:"Prompt title"`
	Content         string   `json:"content,omitempty" doc:"Prompt text"`
	CategoryID      *int64   `json:"category_id,omitempty" nullable:"true" doc:"Category ID"`
	ParentID        *int64   `json:"parent_id,omitempty" nullable:"true" doc:"Parent prompt ID"`
	IsBuildingBlock bool     `json:"is_building_block,omitempty" doc:"Reusable fragment for composing prompts"`
	Tags            []int64  `json:"tags,omitempty" doc:"Tag IDs"`
	AIPlatforms     []int64  `json:"ai_platforms,omitempty" doc:"AI platform IDs"`
}

// CreatePromptInput wraps the create prompt request for Huma.
type CreatePromptInput struct {
	Body CreatePromptRequest
}

// UpdatePromptRequest is the request body for updating a prompt.
type UpdatePromptRequest struct {
	_               struct{} `additionalProperties:"true"`
	Title           *string  `json:"title,omitempty" doc:"Prompt title"`
	Content         *string  `json:"content,omitempty" doc:"Prompt text"`
	CategoryID      *int64   `json:"category_id,omitempty" nullable:"true" doc:"Category ID; omitted or null clears it"`
	ParentID        *int64   `json:"parent_id,omitempty" nullable:"true" doc:"Parent prompt ID; omitted or null clears it"`
	IsBuildingBlock *bool    `json:"is_building_block,omitempty" doc:"Reusable fragment for composing prompts"`
	Tags            IDSet   `json:"tags,omitempty" doc:"Tag IDs; replaces all tags when present; null clears"`
	AIPlatforms     IDSet   `json:"ai_platforms,omitempty" doc:"AI platform IDs; replaces all links when present; null clears"`
}

// UpdatePromptInput wraps the update prompt request for Huma.
type UpdatePromptInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Prompt ID"`
	Body UpdatePromptRequest
}

// CopyPromptsRequest lists prompts copied together.
type CopyPromptsRequest struct {
	IDs []int64 `json:"ids" doc:"Prompt IDs"`
}

// CopyPromptsInput wraps the batch copy request for Huma.
type CopyPromptsInput struct {
	Body CopyPromptsRequest
}

// === Handlers ===

func (s *Server) handleListPrompts(ctx context.Context, input *ListPromptsInput) (*ListPromptsOutput, error) {
	parent, err := parseParentFilter(input.ParentID)
	if err != nil {
		return nil, err
	}

	prompts, err := s.services.Prompt.ListPrompts(ctx, store.PromptFilter{
		CategoryID:      optionalID(input.CategoryID),
		TagID:           optionalID(input.TagID),
		AIPlatformID:    optionalID(input.AIPlatformID),
		IsBuildingBlock: optionalBool(input.IsBuildingBlock),
		Parent:          parent,
		Search:          input.Search,
	})
	if err != nil {
		return nil, err
	}
	return &ListPromptsOutput{Body: nonNil(prompts)}, nil
}

func (s *Server) handleSearchPrompts(ctx context.Context, input *SearchPromptsInput) (*SearchPromptsOutput, error) {
	results, err := s.services.Prompt.SearchPrompts(ctx, strings.TrimSpace(input.Q))
	if err != nil {
		return nil, err
	}
	return &SearchPromptsOutput{Body: nonNil(results)}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *IDInput) (*PromptDetailOutput, error) {
	p, err := s.services.Prompt.GetPrompt(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PromptDetailOutput{Body: p}, nil
}

func (s *Server) handleListPromptChildren(ctx context.Context, input *IDInput) (*PromptChildrenOutput, error) {
	children, err := s.services.Prompt.ListChildren(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PromptChildrenOutput{Body: nonNil(children)}, nil
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *CreatePromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompt.CreatePrompt(ctx, service.CreatePromptRequest{
		Title:           input.Body.Title,
		Content:         input.Body.Content,
		CategoryID:      input.Body.CategoryID,
		ParentID:        input.Body.ParentID,
		IsBuildingBlock: input.Body.IsBuildingBlock,
		TagIDs:          input.Body.Tags,
		AIPlatformIDs:   input.Body.AIPlatforms,
	})
	if err != nil {
		return nil, err
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *UpdatePromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompt.UpdatePrompt(ctx, input.ID, service.UpdatePromptRequest{
		Title:           input.Body.Title,
		Content:         input.Body.Content,
		CategoryID:      input.Body.CategoryID,
		ParentID:        input.Body.ParentID,
		IsBuildingBlock: input.Body.IsBuildingBlock,
		TagIDs:          input.Body.Tags.replacement(),
		AIPlatformIDs:   input.Body.AIPlatforms.replacement(),
	})
	if err != nil {
		return nil, err
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleCopyPrompt(ctx context.Context, input *IDInput) (*PromptOutput, error) {
	p, err := s.services.Prompt.RecordCopy(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleCopyPrompts(ctx context.Context, input *CopyPromptsInput) (*MessageOutput, error) {
	if err := s.services.Prompt.RecordCopies(ctx, input.Body.IDs); err != nil {
		return nil, err
	}
	return message("copies recorded"), nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Prompt.DeletePrompt(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("prompt deleted"), nil
}
