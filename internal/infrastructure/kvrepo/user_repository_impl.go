package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

type UserRepository struct {
	store repository.Store
	now   func() time.Time
}

func NewUserRepository(store repository.Store) *UserRepository {
	return &UserRepository{store: store, now: time.Now}
}

func (r *UserRepository) GetByIdentity(ctx context.Context, identity string) (*entity.User, error) {
	b, err := r.store.Get(ctx, repository.CollectionUsers, identity)
	if err != nil {
		return nil, err
	}
	u := &entity.User{}
	if err := json.Unmarshal(b, u); err != nil {
		return nil, fmt.Errorf("decode user %q: %w", identity, err)
	}
	if u.Identity == "" {
		u.Identity = identity
	}
	return u, nil
}

func (r *UserRepository) EnsureExists(ctx context.Context, identity string) (*entity.User, error) {
	u := &entity.User{Identity: identity, CreatedAt: r.now().UTC()}
	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	created, err := r.store.SetNX(ctx, repository.CollectionUsers, identity, b)
	if err != nil {
		return nil, err
	}
	if created {
		return u, nil
	}
	return r.GetByIdentity(ctx, identity)
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, repository.CollectionUsers, u.Identity, b)
}

// ClearLibraries empties every user's content library but keeps the users.
func (r *UserRepository) ClearLibraries(ctx context.Context) error {
	all, err := r.store.List(ctx, repository.CollectionUsers)
	if err != nil {
		return err
	}
	for identity, b := range all {
		u := &entity.User{}
		if err := json.Unmarshal(b, u); err != nil {
			return fmt.Errorf("decode user %q: %w", identity, err)
		}
		if len(u.ContentLibrary) == 0 {
			continue
		}
		if u.Identity == "" {
			u.Identity = identity
		}
		u.ContentLibrary = nil
		if err := r.Save(ctx, u); err != nil {
			return fmt.Errorf("save user %q: %w", identity, err)
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
