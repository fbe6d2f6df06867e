package repository

import (
	"context"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
)

// UserRepository defines the interface for user records and their content libraries.
type UserRepository interface {
	GetByIdentity(ctx context.Context, identity string) (*entity.User, error)
	// EnsureExists creates an empty record on first sight and returns the stored one.
	EnsureExists(ctx context.Context, identity string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	ClearLibraries(ctx context.Context) error
}
