package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/internal/infrastructure/storetest"
)

func TestCollectionKey(t *testing.T) {
	assert.Equal(t, "kv:content", collectionKey("content"))
}

// TEST_REDIS_ADDR is a host:port of a throwaway Redis, e.g. localhost:6379.
func TestStore_SharedBehaviour(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())

	storetest.Run(t, NewStore(rdb), fmt.Sprintf("storetest-%d", time.Now().UnixNano()))
}
