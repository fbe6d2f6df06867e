package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// Store is an in-process repository.Store used for development and tests.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

func (s *Store) Get(_ context.Context, collection, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.collections[collection][key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Set(_ context.Context, collection, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection)[key] = clone(value)
	return nil
}

func (s *Store) SetNX(_ context.Context, collection, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucket(collection)
	if _, ok := b[key]; ok {
		return false, nil
	}
	b[key] = clone(value)
	return true, nil
}

func (s *Store) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], key)
	return nil
}

func (s *Store) List(_ context.Context, collection string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.collections[collection]))
	for k, v := range s.collections[collection] {
		out[k] = clone(v)
	}
	return out, nil
}

func (s *Store) Drop(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// caller must hold mu for writing
func (s *Store) bucket(collection string) map[string][]byte {
	b, ok := s.collections[collection]
	if !ok {
		b = make(map[string][]byte)
		s.collections[collection] = b
	}
	return b
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ repository.Store = (*Store)(nil)
