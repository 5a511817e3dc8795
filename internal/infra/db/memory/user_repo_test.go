package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	domain "github.com/bryanwahyu/safe-space/internal/domain/users"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: domain.RoleTeen}
	require.NoError(t, repo.Create(ctx, u))

	assert.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "u2", Username: "bob", Email: "ALICE@example.com"}), shared.ErrConflict)
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "u3", Username: "alice", Email: "other@example.com"}), shared.ErrConflict)

	got, err := repo.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
