package identity

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
)

var ErrMissingToken = errors.New("missing access token")

// JWTProvider trusts HS256 tokens signed with the provider's shared secret.
type JWTProvider struct {
	jwt *helpers.JWTManager
}

func NewJWTProvider(jwt *helpers.JWTManager) *JWTProvider {
	return &JWTProvider{jwt: jwt}
}

// Identify never returns an authenticated Identity together with an error.
func (p *JWTProvider) Identify(token string) (repository.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return repository.Identity{}, ErrMissingToken
	}
	claims, err := p.jwt.ParseAccessToken(token)
	if err != nil {
		return repository.Identity{}, err
	}
	id := claims.Identity
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return repository.Identity{}, errors.New("token carries no identity")
	}
	return repository.Identity{ID: id, Authenticated: true}, nil
}

var _ repository.IdentityProvider = (*JWTProvider)(nil)
