package ports

import (
	"context"

	"github.com/callsheet/production-system/internal/core/domain"
)

// CreateProductionInput carries the caller-supplied fields for a new
// production. Emptiness checks are a transport-layer concern.
type CreateProductionInput struct {
	Title    string
	Producer string
}

// ProductionRepository defines persistence operations for productions.
type ProductionRepository interface {
	// Insert writes a new production document and returns the assigned id.
	Insert(ctx context.Context, p *domain.Production) (string, error)
	// FindByID returns domain.ErrProductionNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Production, error)
	// FindVisibleTo returns productions where userID is the creator or an
	// admin, ordered by creation time descending.
	FindVisibleTo(ctx context.Context, userID string) ([]*domain.Production, error)
	// ReplaceAdmins conditionally writes the admin set: the write applies
	// only when the stored version still equals expectedVersion, and the
	// version is advanced in the same operation. Returns
	// domain.ErrConcurrentUpdate when another writer got there first.
	ReplaceAdmins(ctx context.Context, id string, expectedVersion int64, admins []domain.Admin) error
}

// ProductionService defines use-case operations for productions and their
// admin set. Every mutation takes the acting user id and is refused with
// domain.ErrNotAuthorized unless the actor is a current admin.
type ProductionService interface {
	Create(ctx context.Context, input CreateProductionInput, actingUserID string) (*domain.Production, error)
	FetchByID(ctx context.Context, id string) (*domain.Production, error)
	FetchVisibleTo(ctx context.Context, userID string) ([]*domain.Production, error)
	AddAdmin(ctx context.Context, productionID, userID, actingUserID string) error
	RemoveAdmin(ctx context.Context, productionID, userID, actingUserID string) error
	IsAdmin(ctx context.Context, productionID, userID string) (bool, error)
}
