package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// maxAdminWriteAttempts bounds the read-modify-CAS retry loop on admin-set
// mutations. Exhaustion surfaces domain.ErrConcurrentUpdate to the caller.
const maxAdminWriteAttempts = 5

// VisibilityCache caches per-user visible production listings. Optional
// dependency: a nil cache disables caching, and cache failures are logged but
// never fatal — the repository stays authoritative.
type VisibilityCache interface {
	Get(ctx context.Context, userID string) ([]*domain.Production, bool, error)
	Set(ctx context.Context, userID string, productions []*domain.Production) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

// ProductionService owns the production entity and its admin-set invariant.
// The admins field is written exclusively through this service.
type ProductionService struct {
	repo     ports.ProductionRepository
	profiles ports.ProfileRepository
	cache    VisibilityCache
	logger   zerolog.Logger
}

func NewProductionService(repo ports.ProductionRepository, profiles ports.ProfileRepository, cache VisibilityCache, logger zerolog.Logger) *ProductionService {
	return &ProductionService{repo: repo, profiles: profiles, cache: cache, logger: logger}
}

// Create assembles and writes a new production. The acting user must have a
// profile; its full name seeds the initial admin entry. Single-document
// insert, atomic by construction.
func (s *ProductionService) Create(ctx context.Context, input ports.CreateProductionInput, actingUserID string) (*domain.Production, error) {
	profile, err := s.profiles.Get(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	p := &domain.Production{
		Title:     input.Title,
		Producer:  input.Producer,
		CreatedBy: actingUserID,
		CreatedAt: time.Now().UTC(),
		Admins:    []domain.Admin{{ID: actingUserID, Name: profile.FullName}},
		Version:   1,
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actingUserID).Msg("failed to create production")
		return nil, err
	}
	p.ID = id

	s.invalidateVisibility(ctx, actingUserID)
	s.logger.Info().Str("production_id", id).Str("created_by", actingUserID).Msg("production created")
	return p, nil
}

// FetchByID returns the production or domain.ErrProductionNotFound.
func (s *ProductionService) FetchByID(ctx context.Context, id string) (*domain.Production, error) {
	return s.repo.FindByID(ctx, id)
}

// FetchVisibleTo lists productions where the user is the creator or an admin,
// newest first. Listings are served from the cache when fresh.
func (s *ProductionService) FetchVisibleTo(ctx context.Context, userID string) ([]*domain.Production, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("visibility cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	productions, err := s.repo.FindVisibleTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, productions); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("visibility cache write failed")
		}
	}
	return productions, nil
}

// AddAdmin appends userID to the production's admin set. Idempotent: a user
// already present is a successful no-op. The read-modify-write runs under an
// optimistic-concurrency loop so two concurrent additions never lose one
// another; authorization is re-evaluated against the state each attempt reads.
func (s *ProductionService) AddAdmin(ctx context.Context, productionID, userID, actingUserID string) error {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxAdminWriteAttempts; attempt++ {
		p, err := s.repo.FindByID(ctx, productionID)
		if err != nil {
			return err
		}
		if !p.HasAdmin(actingUserID) {
			return domain.ErrNotAuthorized
		}
		if p.HasAdmin(userID) {
			return nil
		}

		admins := append(append([]domain.Admin(nil), p.Admins...), domain.Admin{ID: userID, Name: profile.FullName})
		err = s.repo.ReplaceAdmins(ctx, productionID, p.Version, admins)
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			s.logger.Debug().Str("production_id", productionID).Int("attempt", attempt+1).Msg("admin write conflict, retrying")
			continue
		}
		if err != nil {
			return err
		}

		s.invalidateVisibility(ctx, userID)
		s.logger.Info().Str("production_id", productionID).Str("user_id", userID).Str("acting_user_id", actingUserID).Msg("admin added")
		return nil
	}
	return domain.ErrConcurrentUpdate
}

// RemoveAdmin drops userID from the admin set. A production is never left
// admin-less: the write is refused with domain.ErrLastAdmin while the set
// holds a single entry. Removing a user who is not an admin is a no-op.
func (s *ProductionService) RemoveAdmin(ctx context.Context, productionID, userID, actingUserID string) error {
	for attempt := 0; attempt < maxAdminWriteAttempts; attempt++ {
		p, err := s.repo.FindByID(ctx, productionID)
		if err != nil {
			return err
		}
		if !p.HasAdmin(actingUserID) {
			return domain.ErrNotAuthorized
		}
		if len(p.Admins) <= 1 {
			return domain.ErrLastAdmin
		}
		if !p.HasAdmin(userID) {
			return nil
		}

		admins := make([]domain.Admin, 0, len(p.Admins)-1)
		for _, a := range p.Admins {
			if a.ID != userID {
				admins = append(admins, a)
			}
		}
		err = s.repo.ReplaceAdmins(ctx, productionID, p.Version, admins)
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			s.logger.Debug().Str("production_id", productionID).Int("attempt", attempt+1).Msg("admin write conflict, retrying")
			continue
		}
		if err != nil {
			return err
		}

		s.invalidateVisibility(ctx, userID)
		s.logger.Info().Str("production_id", productionID).Str("user_id", userID).Str("acting_user_id", actingUserID).Msg("admin removed")
		return nil
	}
	return domain.ErrConcurrentUpdate
}

// IsAdmin reports whether userID is an admin of the production. An unknown
// production yields false, not an error.
func (s *ProductionService) IsAdmin(ctx context.Context, productionID, userID string) (bool, error) {
	p, err := s.repo.FindByID(ctx, productionID)
	if errors.Is(err, domain.ErrProductionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.HasAdmin(userID), nil
}

func (s *ProductionService) invalidateVisibility(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warn().Err(err).Strs("user_ids", userIDs).Msg("visibility cache invalidation failed")
	}
}
