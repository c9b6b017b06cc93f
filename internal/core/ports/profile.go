package ports

import (
	"context"

	"github.com/callsheet/production-system/internal/core/domain"
)

// ProfileInput carries the caller-supplied profile fields for an upsert.
type ProfileInput struct {
	Email     string
	FullName  string
	AvatarURL *string
}

// ProfileRepository defines persistence for the one-to-one user-id → profile
// documents.
type ProfileRepository interface {
	// Set fully replaces the profile document for its user id, creating it
	// when absent. Idempotent; no error when no document existed before.
	Set(ctx context.Context, profile *domain.Profile) error
	// Get returns domain.ErrProfileNotFound when no document exists for the
	// id. Transport failures surface as domain.ErrStoreUnavailable.
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

// ProfileService defines use-case operations on profiles.
type ProfileService interface {
	Set(ctx context.Context, userID string, input ProfileInput) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}
