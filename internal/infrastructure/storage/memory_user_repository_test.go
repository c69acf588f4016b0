package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"annadata/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	first, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, first.State)

	second, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestMemoryUserRepository_UpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingPhoto))

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	// неизвестный пользователь молча игнорируется
	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateProcessing))
}
