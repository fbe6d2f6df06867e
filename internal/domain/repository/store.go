package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores and repositories when a key is absent.
var ErrNotFound = errors.New("not found")

// Collection names shared by every Store backend.
const (
	CollectionContent = "content"
	CollectionOrders  = "orders"
	CollectionUsers   = "users"
)

// Store is the key-value store the catalog is persisted in. Values are
// opaque JSON documents grouped into named collections.
type Store interface {
	Get(ctx context.Context, collection, key string) ([]byte, error)
	Set(ctx context.Context, collection, key string, value []byte) error
	// SetNX writes value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, collection, key string, value []byte) (bool, error)
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) (map[string][]byte, error)
	// Drop removes the collection with everything in it. Dropping an
	// absent collection is not an error.
	Drop(ctx context.Context, collection string) error
}
