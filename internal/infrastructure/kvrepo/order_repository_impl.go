package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

type OrderRepository struct {
	store repository.Store
}

func NewOrderRepository(store repository.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	ok, err := r.store.SetNX(ctx, repository.CollectionOrders, o.ID, b)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order %q already exists", o.ID)
	}
	return nil
}

// List returns orders oldest first.
func (r *OrderRepository) List(ctx context.Context) ([]*entity.Order, error) {
	all, err := r.store.List(ctx, repository.CollectionOrders)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Order, 0, len(all))
	for id, b := range all {
		o := &entity.Order{}
		if err := json.Unmarshal(b, o); err != nil {
			return nil, fmt.Errorf("decode order %q: %w", id, err)
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	return r.store.Drop(ctx, repository.CollectionOrders)
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
