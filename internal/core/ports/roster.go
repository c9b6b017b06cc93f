package ports

import (
	"context"

	"github.com/callsheet/production-system/internal/core/domain"
)

// RosterEntryInput carries the caller-supplied fields for a new roster entry.
type RosterEntryInput struct {
	Name           string
	ProductionRole string
	Email          string
	Phone          string
}

// RosterEntryPatch is a partial update; nil fields are left untouched.
type RosterEntryPatch struct {
	Name           *string
	ProductionRole *string
	Email          *string
	Phone          *string
}

// Empty reports whether the patch carries no fields.
func (p RosterEntryPatch) Empty() bool {
	return p.Name == nil && p.ProductionRole == nil && p.Email == nil && p.Phone == nil
}

// RosterRepository defines persistence for the per-production member rosters.
// Entries live in kind-specific child collections of a production.
type RosterRepository interface {
	// Insert writes a new entry and returns the assigned id.
	Insert(ctx context.Context, kind domain.RosterKind, entry *domain.RosterEntry) (string, error)
	// FindAll returns entries ordered by creation time descending. An
	// unknown production yields an empty slice, not an error.
	FindAll(ctx context.Context, kind domain.RosterKind, productionID string) ([]*domain.RosterEntry, error)
	// Update merges the patch onto an existing entry. Returns
	// domain.ErrEntryNotFound when no entry matches; a patch never
	// materializes a document that did not exist.
	Update(ctx context.Context, kind domain.RosterKind, productionID, entryID string, patch RosterEntryPatch) error
	// Delete removes the entry. Hard delete; returns domain.ErrEntryNotFound
	// when no entry matches.
	Delete(ctx context.Context, kind domain.RosterKind, productionID, entryID string) error
}

// RosterService defines use-case operations on rosters. Mutations require the
// acting user to be an admin of the parent production.
type RosterService interface {
	Add(ctx context.Context, kind domain.RosterKind, productionID string, input RosterEntryInput, actingUserID string) (*domain.RosterEntry, error)
	FetchAll(ctx context.Context, kind domain.RosterKind, productionID string) ([]*domain.RosterEntry, error)
	Update(ctx context.Context, kind domain.RosterKind, productionID, entryID string, patch RosterEntryPatch, actingUserID string) error
	Remove(ctx context.Context, kind domain.RosterKind, productionID, entryID string, actingUserID string) error
}
