package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// Store keeps each collection in one Redis hash named kv:<collection>.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func collectionKey(collection string) string {
	return "kv:" + collection
}

func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	b, err := s.rdb.HGet(ctx, collectionKey(collection), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, collection, key string, value []byte) error {
	return s.rdb.HSet(ctx, collectionKey(collection), key, value).Err()
}

func (s *Store) SetNX(ctx context.Context, collection, key string, value []byte) (bool, error) {
	return s.rdb.HSetNX(ctx, collectionKey(collection), key, value).Result()
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	return s.rdb.HDel(ctx, collectionKey(collection), key).Err()
}

func (s *Store) List(ctx context.Context, collection string) (map[string][]byte, error) {
	data, err := s.rdb.HGetAll(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(data))
	for k, v := range data {
		out[k] = []byte(v)
	}
	return out, nil
}

func (s *Store) Drop(ctx context.Context, collection string) error {
	return s.rdb.Del(ctx, collectionKey(collection)).Err()
}

var _ repository.Store = (*Store)(nil)
