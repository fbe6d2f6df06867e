package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// KVStore implements repository.Store on the kv table (see db/migrations).
type KVStore struct {
	pool *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

func (s *KVStore) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM kv WHERE collection = $1 AND key = $2
	`, collection, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, collection, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (collection, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, collection, key, value)
	return err
}

func (s *KVStore) SetNX(ctx context.Context, collection, key string, value []byte) (bool, error) {
	res, err := s.pool.Exec(ctx, `
		INSERT INTO kv (collection, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, key) DO NOTHING
	`, collection, key, value)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (s *KVStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE collection = $1 AND key = $2`, collection, key)
	return err
}

func (s *KVStore) List(ctx context.Context, collection string) (map[string][]byte, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM kv WHERE collection = $1`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (s *KVStore) Drop(ctx context.Context, collection string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE collection = $1`, collection)
	return err
}

var _ repository.Store = (*KVStore)(nil)
