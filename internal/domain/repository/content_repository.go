package repository

import (
	"context"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
)

// ContentRepository defines catalog persistence.
type ContentRepository interface {
	Get(ctx context.Context, id string) (*entity.Content, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Create inserts c unless its ID is taken; false means nothing was written.
	Create(ctx context.Context, c *entity.Content) (bool, error)
	List(ctx context.Context) ([]*entity.Content, error)
	DeleteAll(ctx context.Context) error
}
