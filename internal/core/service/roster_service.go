package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// RosterService owns the ordered cast and creative member collections of a
// production. One instance serves both kinds; every operation takes the kind
// explicitly. It never touches the parent production's admin set.
type RosterService struct {
	repo        ports.RosterRepository
	productions ports.ProductionRepository
	logger      zerolog.Logger
}

func NewRosterService(repo ports.RosterRepository, productions ports.ProductionRepository, logger zerolog.Logger) *RosterService {
	return &RosterService{repo: repo, productions: productions, logger: logger}
}

// Add appends a new entry to the production's roster of the given kind. The
// id and creation timestamp are assigned here; no field validation beyond
// what the transport layer performed.
func (s *RosterService) Add(ctx context.Context, kind domain.RosterKind, productionID string, input ports.RosterEntryInput, actingUserID string) (*domain.RosterEntry, error) {
	if err := s.authorize(ctx, productionID, actingUserID); err != nil {
		return nil, err
	}

	entry := &domain.RosterEntry{
		ProductionID:   productionID,
		Name:           input.Name,
		ProductionRole: input.ProductionRole,
		Email:          input.Email,
		Phone:          input.Phone,
		CreatedAt:      time.Now().UTC(),
	}

	id, err := s.repo.Insert(ctx, kind, entry)
	if err != nil {
		s.logger.Error().Err(err).Str("production_id", productionID).Str("kind", string(kind)).Msg("failed to add roster entry")
		return nil, err
	}
	entry.ID = id

	s.logger.Info().Str("production_id", productionID).Str("entry_id", id).Str("kind", string(kind)).Msg("roster entry added")
	return entry, nil
}

// FetchAll lists the roster newest first. Open to any authenticated caller;
// an unknown production yields an empty list.
func (s *RosterService) FetchAll(ctx context.Context, kind domain.RosterKind, productionID string) ([]*domain.RosterEntry, error) {
	return s.repo.FindAll(ctx, kind, productionID)
}

// Update merges a partial patch onto an existing entry. The entry must exist:
// patching an unknown id fails with domain.ErrEntryNotFound rather than
// materializing a sparse document. An empty patch is a successful no-op.
func (s *RosterService) Update(ctx context.Context, kind domain.RosterKind, productionID, entryID string, patch ports.RosterEntryPatch, actingUserID string) error {
	if err := s.authorize(ctx, productionID, actingUserID); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}

	if err := s.repo.Update(ctx, kind, productionID, entryID, patch); err != nil {
		return err
	}
	s.logger.Info().Str("production_id", productionID).Str("entry_id", entryID).Str("kind", string(kind)).Msg("roster entry updated")
	return nil
}

// Remove hard-deletes the entry. Deleting an unknown id fails with
// domain.ErrEntryNotFound.
func (s *RosterService) Remove(ctx context.Context, kind domain.RosterKind, productionID, entryID string, actingUserID string) error {
	if err := s.authorize(ctx, productionID, actingUserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, kind, productionID, entryID); err != nil {
		return err
	}
	s.logger.Info().Str("production_id", productionID).Str("entry_id", entryID).Str("kind", string(kind)).Msg("roster entry removed")
	return nil
}

// authorize refuses roster mutations unless the acting user is a current
// admin of the parent production.
func (s *RosterService) authorize(ctx context.Context, productionID, actingUserID string) error {
	p, err := s.productions.FindByID(ctx, productionID)
	if err != nil {
		return err
	}
	if !p.HasAdmin(actingUserID) {
		return domain.ErrNotAuthorized
	}
	return nil
}
