package service

import (
	"context"
	"log/slog"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/normalize"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// TagService manages the tags shared by prompts, responses and knowledge entries.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateTagRequest holds the fields of a new tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateTagRequest holds the fields to change; nil fields keep their value.
type UpdateTagRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// ListTags returns all tags ordered by name, with prompt usage counts.
func (s *TagService) ListTags(ctx context.Context) ([]domain.TagListItem, error) {
	return s.store.ListTags(ctx)
}

// CreateTag returns the tag with the normalized name, creating it when absent.
// The bool reports whether a new tag was created.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, bool, error) {
	req.Name = normalize.Name(req.Name)
	req.Color = normalize.Color(req.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	t, created, err := s.store.FindOrCreateTag(ctx, req.Name, req.Color)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("tag created", "tag_id", t.ID, "name", t.Name)
	}
	return t, created, nil
}

// UpdateTag renames or recolors a tag. Renaming onto an existing name is a conflict.
func (s *TagService) UpdateTag(ctx context.Context, id int64, req UpdateTagRequest) (*domain.Tag, error) {
	req.Name = normalizedPtr(req.Name, normalize.Name)
	req.Color = normalizedPtr(req.Color, normalize.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.UpdateTag(ctx, id, store.TagUpdate{Name: req.Name, Color: req.Color})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "tag_id", id)
	return t, nil
}

// DeleteTag deletes a tag and all of its associations.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", "tag_id", id)
	return nil
}
