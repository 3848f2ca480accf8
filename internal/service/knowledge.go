package service

import (
	"context"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// Content formats accepted by knowledge create and update.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// KnowledgeService manages knowledge base entries.
type KnowledgeService struct {
	store     store.Store
	files     FileRemover
	validator *validation.Validator
	logger    *slog.Logger
}

// NewKnowledgeService creates a new knowledge service. files removes the
// stored attachment files of deleted entries.
func NewKnowledgeService(store store.Store, files FileRemover, validator *validation.Validator, logger *slog.Logger) *KnowledgeService {
	return &KnowledgeService{
		store:     store,
		files:     files,
		validator: validator,
		logger:    logger,
	}
}

// CreateKnowledgeRequest holds the fields of a new knowledge entry.
type CreateKnowledgeRequest struct {
	Title   string  `json:"title" validate:"required,max=500"`
	Content string  `json:"content"`
	Format  string  `json:"format" validate:"omitempty,oneof=markdown html"`
	TagIDs  []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// UpdateKnowledgeRequest holds a knowledge update. Nil fields keep their value.
type UpdateKnowledgeRequest struct {
	Title   *string  `json:"title" validate:"omitempty,min=1,max=500"`
	Content *string  `json:"content"`
	Format  string   `json:"format" validate:"omitempty,oneof=markdown html"`
	TagIDs  *[]int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// ListKnowledge returns entries matching every set filter.
func (s *KnowledgeService) ListKnowledge(ctx context.Context, f store.KnowledgeFilter) ([]domain.KnowledgeListItem, error) {
	return s.store.ListKnowledge(ctx, f)
}

// GetKnowledge returns the full view of an entry.
func (s *KnowledgeService) GetKnowledge(ctx context.Context, id int64) (*domain.KnowledgeDetail, error) {
	return s.store.GetKnowledgeDetail(ctx, id)
}

// CreateKnowledge creates an entry. HTML content is stored as markdown.
func (s *KnowledgeService) CreateKnowledge(ctx context.Context, req CreateKnowledgeRequest) (*domain.KnowledgeEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	content, err := toMarkdown(req.Content, req.Format)
	if err != nil {
		return nil, err
	}

	k, err := s.store.CreateKnowledge(ctx, store.KnowledgeInput{
		Title:   req.Title,
		Content: content,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knowledge entry created", "knowledge_id", k.ID, "format", req.Format)
	return k, nil
}

// UpdateKnowledge updates an entry.
func (s *KnowledgeService) UpdateKnowledge(ctx context.Context, id int64, req UpdateKnowledgeRequest) (*domain.KnowledgeEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	content := req.Content
	if content != nil {
		converted, err := toMarkdown(*content, req.Format)
		if err != nil {
			return nil, err
		}
		content = &converted
	}

	k, err := s.store.UpdateKnowledge(ctx, id, store.KnowledgeUpdate{
		Title:   req.Title,
		Content: content,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knowledge entry updated", "knowledge_id", id)
	return k, nil
}

// DeleteKnowledge deletes an entry and the files of its attachments.
func (s *KnowledgeService) DeleteKnowledge(ctx context.Context, id int64) error {
	files, err := s.store.DeleteKnowledge(ctx, id)
	if err != nil {
		return err
	}

	removeFiles(ctx, s.files, files, s.logger)
	s.logger.Info("knowledge entry deleted", "knowledge_id", id, "attachments", len(files))
	return nil
}

// toMarkdown converts pasted HTML to markdown. Markdown passes through.
func toMarkdown(content, format string) (string, error) {
	if format != FormatHTML || content == "" {
		return content, nil
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeBadRequest, "content is not valid HTML")
	}
	return strings.TrimSpace(markdown), nil
}
