package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// GrantService adds content to a user's library outside any payment flow.
type GrantService struct {
	Content repo.ContentRepository
	Orders  repo.OrderRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
}

func NewGrantService(content repo.ContentRepository, orders repo.OrderRepository, users repo.UserRepository, logger *logrus.Logger) *GrantService {
	return &GrantService{Content: content, Orders: orders, Users: users, Logger: logger}
}

// Grant records a manual order and adds contentID to the library of identity.
func (s *GrantService) Grant(ctx context.Context, identity, contentID string) (*entity.Order, error) {
	if identity == "" {
		return nil, ErrUnauthorized
	}
	entry, err := s.Content.Get(ctx, contentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load content: %w", err)
	}
	u, err := s.Users.EnsureExists(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u.Owns(entry.ID) {
		return nil, ErrAlreadyOwned
	}

	order := &entity.Order{
		ID:        uuid.NewString(),
		Identity:  identity,
		ContentID: entry.ID,
		Source:    entity.OrderSourceManual,
		Amount:    entry.Price,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	u.Grant(entry.ID)
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save library: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"identity": identity, "content_id": entry.ID, "order_id": order.ID}).Info("content granted")
	}
	return order, nil
}
