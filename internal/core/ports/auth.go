package ports

import (
	"context"

	"github.com/callsheet/production-system/internal/core/domain"
)

// AuthRepository defines the interface for credential persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes a credential; used to roll back a registration whose
	// profile creation failed.
	Delete(ctx context.Context, id string) error
}

// AuthService handles account registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
