package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/repository"
)

func TestMemoryTabRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryTabRepository()

	_, err := repo.Load(ctx, "tab-1")
	require.ErrorIs(t, err, entity.ErrTabNotFound)

	state := entity.TabState{Token: "tok123", Username: "Alice"}
	require.NoError(t, repo.Save(ctx, "tab-1", state))

	got, err := repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// Tabs are isolated from each other.
	_, err = repo.Load(ctx, "tab-2")
	require.ErrorIs(t, err, entity.ErrTabNotFound)

	require.NoError(t, repo.Save(ctx, "tab-1", entity.TabState{Token: "tok456", Username: "Alice"}))

	got, err = repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, "tok456", got.Token)

	require.NoError(t, repo.Delete(ctx, "tab-1"))

	_, err = repo.Load(ctx, "tab-1")
	require.ErrorIs(t, err, entity.ErrTabNotFound)

	// Deleting an absent tab is a no-op.
	require.NoError(t, repo.Delete(ctx, "tab-1"))
}
