package repository

import (
	"context"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	List(ctx context.Context) ([]*entity.Order, error)
	DeleteAll(ctx context.Context) error
}
