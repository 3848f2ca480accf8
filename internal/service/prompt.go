package service

import (
	"context"
	"log/slog"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// PromptService manages prompts, their associations and copy tracking.
type PromptService struct {
	store     store.Store
	files     FileRemover
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPromptService creates a new prompt service. files removes the stored
// attachment files of deleted prompts.
func NewPromptService(store store.Store, files FileRemover, validator *validation.Validator, logger *slog.Logger) *PromptService {
	return &PromptService{
		store:     store,
		files:     files,
		validator: validator,
		logger:    logger,
	}
}

// CreatePromptRequest holds the fields of a new prompt.
type CreatePromptRequest struct {
	Title           string  `json:"title" validate:"required,max=500"`
	Content         string  `json:"content"`
	CategoryID      *int64  `json:"category_id" validate:"omitempty,gt=0"`
	ParentID        *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	IsBuildingBlock bool    `json:"is_building_block"`
	TagIDs          []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
	AIPlatformIDs   []int64 `json:"ai_platform_ids" validate:"omitempty,dive,gt=0"`
}

// UpdatePromptRequest holds a prompt update. Title, Content and
// IsBuildingBlock keep their value when nil. CategoryID and ParentID are
// always written. TagIDs and AIPlatformIDs replace the sets when non-nil.
type UpdatePromptRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=500"`
	Content         *string  `json:"content"`
	CategoryID      *int64   `json:"category_id" validate:"omitempty,gt=0"`
	ParentID        *int64   `json:"parent_id" validate:"omitempty,gt=0"`
	IsBuildingBlock *bool    `json:"is_building_block"`
	TagIDs          *[]int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
	AIPlatformIDs   *[]int64 `json:"ai_platform_ids" validate:"omitempty,dive,gt=0"`
}

// ListPrompts returns prompts matching every set filter.
func (s *PromptService) ListPrompts(ctx context.Context, f store.PromptFilter) ([]domain.PromptListItem, error) {
	return s.store.ListPrompts(ctx, f)
}

// SearchPrompts is the quick search. An empty term returns no results.
func (s *PromptService) SearchPrompts(ctx context.Context, term string) ([]domain.PromptSearchResult, error) {
	return s.store.SearchPrompts(ctx, term)
}

// GetPrompt returns the full view of a prompt.
func (s *PromptService) GetPrompt(ctx context.Context, id int64) (*domain.PromptDetail, error) {
	return s.store.GetPromptDetail(ctx, id)
}

// ListChildren returns the direct children of a prompt.
func (s *PromptService) ListChildren(ctx context.Context, id int64) ([]domain.PromptChild, error) {
	return s.store.ListPromptChildren(ctx, id)
}

// CreatePrompt creates a prompt with its tags and platforms.
func (s *PromptService) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*domain.Prompt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.CreatePrompt(ctx, store.PromptInput{
		Title:           req.Title,
		Content:         req.Content,
		CategoryID:      req.CategoryID,
		ParentID:        req.ParentID,
		IsBuildingBlock: req.IsBuildingBlock,
		TagIDs:          req.TagIDs,
		AIPlatformIDs:   req.AIPlatformIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt created",
		"prompt_id", p.ID,
		"parent_id", p.ParentID,
		"tags", len(req.TagIDs),
		"platforms", len(req.AIPlatformIDs),
	)
	return p, nil
}

// UpdatePrompt updates a prompt. A prompt cannot become its own parent;
// longer cycles are not checked.
func (s *PromptService) UpdatePrompt(ctx context.Context, id int64, req UpdatePromptRequest) (*domain.Prompt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, domainerrors.BadRequest("a prompt cannot be its own parent")
	}

	p, err := s.store.UpdatePrompt(ctx, id, store.PromptUpdate{
		Title:           req.Title,
		Content:         req.Content,
		CategoryID:      req.CategoryID,
		ParentID:        req.ParentID,
		IsBuildingBlock: req.IsBuildingBlock,
		TagIDs:          req.TagIDs,
		AIPlatformIDs:   req.AIPlatformIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt updated", "prompt_id", id)
	return p, nil
}

// RecordCopy counts one copy of a prompt.
func (s *PromptService) RecordCopy(ctx context.Context, id int64) (*domain.Prompt, error) {
	p, err := s.store.RecordPromptCopy(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("prompt copied", "prompt_id", id, "use_count", p.UseCount)
	return p, nil
}

// RecordCopies counts one copy per id, as the copy dialog does when a prompt
// is copied together with selected descendants. Unknown ids abort the batch.
func (s *PromptService) RecordCopies(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return domainerrors.BadRequest("no prompt ids given")
	}
	if err := s.store.RecordPromptCopies(ctx, ids); err != nil {
		return err
	}

	s.logger.Debug("prompts copied", "count", len(ids))
	return nil
}

// DeletePrompt deletes a prompt and the files of its attachments.
func (s *PromptService) DeletePrompt(ctx context.Context, id int64) error {
	files, err := s.store.DeletePrompt(ctx, id)
	if err != nil {
		return err
	}

	removeFiles(ctx, s.files, files, s.logger)
	s.logger.Info("prompt deleted", "prompt_id", id, "attachments", len(files))
	return nil
}
