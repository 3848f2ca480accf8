package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// ResponseService manages the research library of saved AI responses.
type ResponseService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewResponseService creates a new AI response service.
func NewResponseService(store store.Store, validator *validation.Validator, logger *slog.Logger) *ResponseService {
	return &ResponseService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateResponseRequest holds the fields of a new AI response.
type CreateResponseRequest struct {
	Title        string  `json:"title" validate:"required,max=500"`
	Content      string  `json:"content"`
	AIPlatformID *int64  `json:"ai_platform_id" validate:"omitempty,gt=0"`
	PromptID     *int64  `json:"prompt_id" validate:"omitempty,gt=0"`
	Topic        *string `json:"topic" validate:"omitempty,max=200"`
	Notes        *string `json:"notes"`
	IsFavorite   bool    `json:"is_favorite"`
	TagIDs       []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// UpdateResponseRequest holds a response update. Title, Content and
// IsFavorite keep their value when nil; the references, Topic and Notes are
// always written. TagIDs replaces the tag set when non-nil.
type UpdateResponseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=500"`
	Content      *string  `json:"content"`
	AIPlatformID *int64   `json:"ai_platform_id" validate:"omitempty,gt=0"`
	PromptID     *int64   `json:"prompt_id" validate:"omitempty,gt=0"`
	Topic        *string  `json:"topic" validate:"omitempty,max=200"`
	Notes        *string  `json:"notes"`
	IsFavorite   *bool    `json:"is_favorite"`
	TagIDs       *[]int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// ListResponses returns responses matching every set filter.
func (s *ResponseService) ListResponses(ctx context.Context, f store.ResponseFilter) ([]domain.AIResponseListItem, error) {
	return s.store.ListResponses(ctx, f)
}

// ListTopics returns the distinct topics in use, sorted.
func (s *ResponseService) ListTopics(ctx context.Context) ([]string, error) {
	return s.store.ListTopics(ctx)
}

// GetResponse returns the full view of a response.
func (s *ResponseService) GetResponse(ctx context.Context, id int64) (*domain.AIResponseDetail, error) {
	return s.store.GetResponseDetail(ctx, id)
}

// CreateResponse saves a new AI response.
func (s *ResponseService) CreateResponse(ctx context.Context, req CreateResponseRequest) (*domain.AIResponse, error) {
	req.Topic = blankToNil(req.Topic)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	r, err := s.store.CreateResponse(ctx, store.ResponseInput{
		Title:        req.Title,
		Content:      req.Content,
		AIPlatformID: req.AIPlatformID,
		PromptID:     req.PromptID,
		Topic:        req.Topic,
		Notes:        req.Notes,
		IsFavorite:   req.IsFavorite,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ai response created", "response_id", r.ID, "prompt_id", r.PromptID)
	return r, nil
}

// UpdateResponse updates a response.
func (s *ResponseService) UpdateResponse(ctx context.Context, id int64, req UpdateResponseRequest) (*domain.AIResponse, error) {
	req.Topic = blankToNil(req.Topic)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	r, err := s.store.UpdateResponse(ctx, id, store.ResponseUpdate{
		Title:        req.Title,
		Content:      req.Content,
		AIPlatformID: req.AIPlatformID,
		PromptID:     req.PromptID,
		Topic:        req.Topic,
		Notes:        req.Notes,
		IsFavorite:   req.IsFavorite,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ai response updated", "response_id", id)
	return r, nil
}

// ToggleFavorite flips the favorite flag and returns the updated response.
func (s *ResponseService) ToggleFavorite(ctx context.Context, id int64) (*domain.AIResponse, error) {
	r, err := s.store.ToggleResponseFavorite(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ai response favorite toggled", "response_id", id, "is_favorite", r.IsFavorite)
	return r, nil
}

// DeleteResponse deletes a response.
func (s *ResponseService) DeleteResponse(ctx context.Context, id int64) error {
	if err := s.store.DeleteResponse(ctx, id); err != nil {
		return err
	}

	s.logger.Info("ai response deleted", "response_id", id)
	return nil
}

// blankToNil trims a topic and drops it when empty, so topics group cleanly.
func blankToNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
