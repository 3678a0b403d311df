package ports

import (
	"context"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// IdentityRepository defines persistence for one credential pool.
type IdentityRepository interface {
	// FindBySignInKey returns the identity whose mobile or email equals key.
	FindBySignInKey(ctx context.Context, key string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// Create returns domain.ErrDuplicateIdentity when mobile or email is taken.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}
