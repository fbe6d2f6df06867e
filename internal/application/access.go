package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// AccessControl answers the three authorization questions of the storefront.
type AccessControl struct {
	admins map[string]struct{}
	Users  repository.UserRepository
}

func NewAccessControl(admins []string, users repository.UserRepository) *AccessControl {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return &AccessControl{admins: set, Users: users}
}

// IsAdmin reports membership in the configured allow-list.
func (a *AccessControl) IsAdmin(identity string) bool {
	if identity == "" {
		return false
	}
	_, ok := a.admins[identity]
	return ok
}

// OwnsContent is false, not an error, for users without a record or library.
func (a *AccessControl) OwnsContent(ctx context.Context, identity, contentID string) (bool, error) {
	if identity == "" {
		return false, nil
	}
	u, err := a.Users.GetByIdentity(ctx, identity)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Owns(contentID), nil
}

func (a *AccessControl) CanAccessContent(ctx context.Context, identity string, c *entity.Content) (bool, error) {
	if c == nil {
		return false, nil
	}
	if !c.Paywalled {
		return true, nil
	}
	return a.OwnsContent(ctx, identity, c.ID)
}

// Library returns the ids granted to identity, empty when there is no record.
func (a *AccessControl) Library(ctx context.Context, identity string) ([]string, error) {
	u, err := a.Users.GetByIdentity(ctx, identity)
	if errors.Is(err, repository.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Library(), nil
}
