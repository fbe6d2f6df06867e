package repository

// Identity is what the authentication provider knows about a caller.
type Identity struct {
	ID            string
	Authenticated bool
}

// IdentityProvider resolves a presented credential into an Identity.
type IdentityProvider interface {
	Identify(token string) (Identity, error)
}
