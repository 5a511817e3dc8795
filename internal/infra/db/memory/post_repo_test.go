package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

func TestPostRepository_ListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()

	posts := []*domain.Post{
		{ID: "p1", UserID: "u1", Content: "one", Category: "general", CreatedAt: base},
		{ID: "p2", UserID: "u2", Content: "two", Category: "support", CreatedAt: base.Add(time.Minute)},
		{ID: "p3", UserID: "u1", Content: "three", Category: "support", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, p := range posts {
		require.NoError(t, repo.Save(ctx, p))
	}

	list, total, err := repo.List(ctx, domain.Filter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "p3", list[0].ID)

	list, total, err = repo.List(ctx, domain.Filter{Category: "support"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, domain.Filter{UserID: "u1"}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "support"}, cats)
}

func TestPostRepository_ToggleLike(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	require.NoError(t, repo.Save(ctx, &domain.Post{ID: "p1", UserID: "u1", Content: "x", Category: "general", CreatedAt: base}))

	liked, err := repo.ToggleLike(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.True(t, liked)

	p, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, p.Likes)

	liked, err = repo.ToggleLike(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.False(t, liked)

	p, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, p.Likes)

	_, err = repo.ToggleLike(ctx, "missing", "u2")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	require.NoError(t, repo.Save(ctx, &domain.Post{ID: "p1", UserID: "u1", Content: "x", Category: "general", CreatedAt: base}))

	require.NoError(t, repo.Update(ctx, &domain.Post{ID: "p1", Content: "y", Category: "support", UpdatedAt: base.Add(time.Hour)}))
	p, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "y", p.Content)
	assert.Equal(t, "u1", p.UserID)

	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), shared.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Post{ID: "p1"}), shared.ErrNotFound)
}
