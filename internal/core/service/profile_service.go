package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// ProfileService manages the one-to-one user-id → profile documents.
type ProfileService struct {
	repo   ports.ProfileRepository
	logger zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// Set upserts the profile with full-replace semantics. The creation timestamp
// is set once: an overwrite keeps the original created_at.
func (s *ProfileService) Set(ctx context.Context, userID string, input ports.ProfileInput) (*domain.Profile, error) {
	createdAt := time.Now().UTC()
	existing, err := s.repo.Get(ctx, userID)
	if err == nil {
		createdAt = existing.CreatedAt
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:    userID,
		Email:     input.Email,
		FullName:  input.FullName,
		CreatedAt: createdAt,
		AvatarURL: input.AvatarURL,
	}
	if err := s.repo.Set(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to set profile")
		return nil, err
	}
	return profile, nil
}

// Get returns the profile or domain.ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.Get(ctx, userID)
}
