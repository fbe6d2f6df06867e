package kvrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/memory"
)

func TestContentRepository_CreateIsInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(memory.NewStore())

	first := &entity.Content{ID: "my-book", Name: "My Book", Filename: "a.pdf"}
	ok, err := repo.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Create(ctx, &entity.Content{ID: "my-book", Name: "my book", Filename: "b.pdf"})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "my-book")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Filename)

	exists, err := repo.Exists(ctx, "my-book")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestContentRepository_ListSortedAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(memory.NewStore())
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := repo.Create(ctx, &entity.Content{ID: entity.NameToID(n), Name: n})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, repo.DeleteAll(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContentRepository_ReadsLegacyRecordWithoutID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, repository.CollectionContent, "old-guide",
		[]byte(`{"name":"Old Guide","price":5,"filename":"g.pdf","image":"g.png","preview_image":"g.png","paywalled":true,"description":"d"}`)))

	got, err := NewContentRepository(store).Get(ctx, "old-guide")
	require.NoError(t, err)
	assert.Equal(t, "old-guide", got.ID)
	assert.True(t, got.Paywalled)
}

func TestUserRepository_EnsureExistsKeepsLibrary(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.NewStore())

	u, err := repo.EnsureExists(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, u.ContentLibrary)

	u.Grant("paid-guide")
	require.NoError(t, repo.Save(ctx, u))

	again, err := repo.EnsureExists(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"paid-guide"}, again.ContentLibrary)
}

func TestUserRepository_GetMissing(t *testing.T) {
	_, err := NewUserRepository(memory.NewStore()).GetByIdentity(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ClearLibraries(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.NewStore())
	for _, id := range []string{"alice", "bob"} {
		u, err := repo.EnsureExists(ctx, id)
		require.NoError(t, err)
		u.Grant("x")
		require.NoError(t, repo.Save(ctx, u))
	}

	require.NoError(t, repo.ClearLibraries(ctx))

	for _, id := range []string{"alice", "bob"} {
		u, err := repo.GetByIdentity(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, u.ContentLibrary)
	}
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(memory.NewStore())
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o2", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o1", CreatedAt: now}))
	assert.Error(t, repo.Create(ctx, &entity.Order{ID: "o1"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o1", list[0].ID)

	require.NoError(t, repo.DeleteAll(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
