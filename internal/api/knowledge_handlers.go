package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/service"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func (s *Server) registerKnowledgeRoutes() {
	register(s, huma.Operation{
		OperationID: "listKnowledge",
		Method:      http.MethodGet,
		Path:        "/api/knowledge",
		Summary:     "List knowledge entries",
		Description: "Returns knowledge entries with tags and attachment counts, newest change first",
		Tags:        []string{"Knowledge"},
		Security:    bearerSecurity,
	}, s.handleListKnowledge)

	register(s, huma.Operation{
		OperationID: "getKnowledge",
		Method:      http.MethodGet,
		Path:        "/api/knowledge/{id}",
		Summary:     "Get knowledge entry",
		Description: "Returns an entry with its tags and attachments",
		Tags:        []string{"Knowledge"},
		Security:    bearerSecurity,
	}, s.handleGetKnowledge)

	register(s, huma.Operation{
		OperationID:   "createKnowledge",
		Method:        http.MethodPost,
		Path:          "/api/knowledge",
		Summary:       "Create knowledge entry",
		Description:   "Creates an entry. HTML content is converted to markdown when format is html.",
		Tags:          []string{"Knowledge"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateKnowledge)

	register(s, huma.Operation{
		OperationID: "updateKnowledge",
		Method:      http.MethodPut,
		Path:        "/api/knowledge/{id}",
		Summary:     "Update knowledge entry",
		Description: "Updates the provided fields; tags replace the links only when present",
		Tags:        []string{"Knowledge"},
		Security:    bearerSecurity,
	}, s.handleUpdateKnowledge)

	register(s, huma.Operation{
		OperationID: "deleteKnowledge",
		Method:      http.MethodDelete,
		Path:        "/api/knowledge/{id}",
		Summary:     "Delete knowledge entry",
		Description: "Deletes an entry with its attachments",
		Tags:        []string{"Knowledge"},
		Security:    bearerSecurity,
	}, s.handleDeleteKnowledge)
}

// === DTOs ===

// ListKnowledgeInput contains the knowledge list filters.
type ListKnowledgeInput struct {
	Search string `query:"search" doc:"Substring of title or content"`
	TagID  int64  `query:"tag_id" doc:"Only entries with this tag"`
}

// ListKnowledgeOutput wraps the knowledge list for Huma.
type ListKnowledgeOutput struct {
	Body []domain.KnowledgeListItem
}

// KnowledgeDetailOutput wraps a knowledge detail for Huma.
type KnowledgeDetailOutput struct {
	Body *domain.KnowledgeDetail
}

// KnowledgeOutput wraps a knowledge row for Huma.
type KnowledgeOutput struct {
	Body *domain.KnowledgeEntry
}

// CreateKnowledgeRequest is the request body for creating an entry.
type CreateKnowledgeRequest struct {
	_       struct{} `additionalProperties:"true"`
	Title   string   `json:"title" doc:"Entry title"`
	Content string   `json:"content,omitempty" doc:"Entry body"`
	Format  string   `json:"format,omitempty" enum:"markdown,html" doc:"Content format, markdown by default"`
	Tags    []int64  `json:"tags,omitempty" doc:"Tag IDs"`
}

// CreateKnowledgeInput wraps the create knowledge request for Huma.
type CreateKnowledgeInput struct {
	Body CreateKnowledgeRequest
}

// UpdateKnowledgeRequest is the request body for updating an entry.
type UpdateKnowledgeRequest struct {
	_       struct{} `additionalProperties:"true"`
	Title   *string  `json:"title,omitempty" doc:"Entry title"`
	Content *string  `json:"content,omitempty" doc:"Entry body"`
	Format  string   `json:"format,omitempty" enum:"markdown,html" doc:"Content format, markdown by default"`
	Tags    IDSet   `json:"tags,omitempty" doc:"Tag IDs; replaces all tags when present; null clears"`
}

// UpdateKnowledgeInput wraps the update knowledge request for Huma.
type UpdateKnowledgeInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Knowledge entry ID"`
	Body UpdateKnowledgeRequest
}

// === Handlers ===

func (s *Server) handleListKnowledge(ctx context.Context, input *ListKnowledgeInput) (*ListKnowledgeOutput, error) {
	entries, err := s.services.Knowledge.ListKnowledge(ctx, store.KnowledgeFilter{
		TagID:  optionalID(input.TagID),
		Search: input.Search,
	})
	if err != nil {
		return nil, err
	}
	return &ListKnowledgeOutput{Body: nonNil(entries)}, nil
}

func (s *Server) handleGetKnowledge(ctx context.Context, input *IDInput) (*KnowledgeDetailOutput, error) {
	k, err := s.services.Knowledge.GetKnowledge(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &KnowledgeDetailOutput{Body: k}, nil
}

func (s *Server) handleCreateKnowledge(ctx context.Context, input *CreateKnowledgeInput) (*KnowledgeOutput, error) {
	k, err := s.services.Knowledge.CreateKnowledge(ctx, service.CreateKnowledgeRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Format:  input.Body.Format,
		TagIDs:  input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &KnowledgeOutput{Body: k}, nil
}

func (s *Server) handleUpdateKnowledge(ctx context.Context, input *UpdateKnowledgeInput) (*KnowledgeOutput, error) {
	k, err := s.services.Knowledge.UpdateKnowledge(ctx, input.ID, service.UpdateKnowledgeRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Format:  input.Body.Format,
		TagIDs:  input.Body.Tags.replacement(),
	})
	if err != nil {
		return nil, err
	}
	return &KnowledgeOutput{Body: k}, nil
}

func (s *Server) handleDeleteKnowledge(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Knowledge.DeleteKnowledge(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("knowledge entry deleted"), nil
}
