// Package storetest holds the behaviour every repository.Store backend must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// Run exercises s inside collection and drops it afterwards. Values are JSON
// so the jsonb-backed store sees valid documents.
func Run(t *testing.T, s repository.Store, collection string) {
	t.Helper()
	ctx := context.Background()
	t.Cleanup(func() { _ = s.Drop(context.Background(), collection) })
	require.NoError(t, s.Drop(ctx, collection))

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, collection, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, collection, "a", []byte(`{"n":1}`)))
		require.NoError(t, s.Set(ctx, collection, "a", []byte(`{"n":2}`)))
		got, err := s.Get(ctx, collection, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":2}`, string(got))
	})

	t.Run("SetNXKeepsFirstValue", func(t *testing.T) {
		ok, err := s.SetNX(ctx, collection, "my-book", []byte(`{"v":"first"}`))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.SetNX(ctx, collection, "my-book", []byte(`{"v":"second"}`))
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := s.Get(ctx, collection, "my-book")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":"first"}`, string(got))
	})

	t.Run("SetNXConcurrentSingleWinner", func(t *testing.T) {
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ok, err := s.SetNX(ctx, collection, "race", []byte(fmt.Sprintf(`{"i":%d}`, i)))
				assert.NoError(t, err)
				if ok {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		all, err := s.List(ctx, collection)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.JSONEq(t, `{"n":2}`, string(all["a"]))

		require.NoError(t, s.Delete(ctx, collection, "a"))
		require.NoError(t, s.Delete(ctx, collection, "never-there"))
		_, err = s.Get(ctx, collection, "a")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("DropEmptiesOnlyThatCollection", func(t *testing.T) {
		other := collection + "-other"
		require.NoError(t, s.Set(ctx, other, "k", []byte(`{}`)))
		t.Cleanup(func() { _ = s.Drop(context.Background(), other) })

		require.NoError(t, s.Drop(ctx, collection))
		require.NoError(t, s.Drop(ctx, collection+"-never-existed"))

		all, err := s.List(ctx, collection)
		require.NoError(t, err)
		assert.Empty(t, all)
		kept, err := s.List(ctx, other)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})
}
