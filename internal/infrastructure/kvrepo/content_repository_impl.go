package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

type ContentRepository struct {
	store repository.Store
}

func NewContentRepository(store repository.Store) *ContentRepository {
	return &ContentRepository{store: store}
}

func (r *ContentRepository) Get(ctx context.Context, id string) (*entity.Content, error) {
	b, err := r.store.Get(ctx, repository.CollectionContent, id)
	if err != nil {
		return nil, err
	}
	c := &entity.Content{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("decode content %q: %w", id, err)
	}
	// records written before ids were stored carry only the key
	if c.ID == "" {
		c.ID = id
	}
	return c, nil
}

func (r *ContentRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.Get(ctx, repository.CollectionContent, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ContentRepository) Create(ctx context.Context, c *entity.Content) (bool, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return false, err
	}
	return r.store.SetNX(ctx, repository.CollectionContent, c.ID, b)
}

// List returns the catalog ordered by name, then id.
func (r *ContentRepository) List(ctx context.Context) ([]*entity.Content, error) {
	all, err := r.store.List(ctx, repository.CollectionContent)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Content, 0, len(all))
	for id, b := range all {
		c := &entity.Content{}
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("decode content %q: %w", id, err)
		}
		if c.ID == "" {
			c.ID = id
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ContentRepository) DeleteAll(ctx context.Context) error {
	return r.store.Drop(ctx, repository.CollectionContent)
}

var _ repository.ContentRepository = (*ContentRepository)(nil)
