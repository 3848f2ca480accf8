package service

import (
	"context"
	"log/slog"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/normalize"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// PlatformService manages AI platforms.
type PlatformService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPlatformService creates a new AI platform service.
func NewPlatformService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PlatformService {
	return &PlatformService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreatePlatformRequest holds the fields of a new AI platform.
type CreatePlatformRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Icon      string `json:"icon" validate:"omitempty,max=50"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdatePlatformRequest holds the fields to change; nil fields keep their value.
type UpdatePlatformRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
	Icon      *string `json:"icon" validate:"omitempty,min=1,max=50"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// ListPlatforms returns all AI platforms with prompt usage counts.
func (s *PlatformService) ListPlatforms(ctx context.Context) ([]domain.AIPlatformListItem, error) {
	return s.store.ListAIPlatforms(ctx)
}

// CreatePlatform returns the platform with the normalized name, creating it
// when absent. The bool reports whether a new platform was created.
func (s *PlatformService) CreatePlatform(ctx context.Context, req CreatePlatformRequest) (*domain.AIPlatform, bool, error) {
	req.Name = normalize.Name(req.Name)
	req.Color = normalize.Color(req.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	p, created, err := s.store.FindOrCreateAIPlatform(ctx, store.AIPlatformInput{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("ai platform created", "platform_id", p.ID, "name", p.Name)
	}
	return p, created, nil
}

// UpdatePlatform changes the provided fields of a platform.
func (s *PlatformService) UpdatePlatform(ctx context.Context, id int64, req UpdatePlatformRequest) (*domain.AIPlatform, error) {
	req.Name = normalizedPtr(req.Name, normalize.Name)
	req.Color = normalizedPtr(req.Color, normalize.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.UpdateAIPlatform(ctx, id, store.AIPlatformUpdate{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ai platform updated", "platform_id", id)
	return p, nil
}

// DeletePlatform deletes a platform. Responses referencing it keep their row
// with the platform cleared.
func (s *PlatformService) DeletePlatform(ctx context.Context, id int64) error {
	if err := s.store.DeleteAIPlatform(ctx, id); err != nil {
		return err
	}

	s.logger.Info("ai platform deleted", "platform_id", id)
	return nil
}
