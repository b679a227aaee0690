package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store/storetest"
)

func open(t *testing.T, path string) domain.RemoteStore {
	t.Helper()
	s, err := Open(context.Background(), path, logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.RemoteStore {
		return open(t, filepath.Join(t.TempDir(), "nutriveda.db"))
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nutriveda.db")
	log := logger.New(logger.LevelOff, nil)

	first, err := Open(ctx, path, log)
	require.NoError(t, err)
	require.NoError(t, first.AddFavorite(ctx, "user-1", domain.Recipe{ID: "2", Name: "Masala Dosa"}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, log)
	require.NoError(t, err)
	defer second.Close()

	saved, err := second.GetSavedRecipes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Masala Dosa", saved[0].Name)
	assert.True(t, saved[0].IsFavorite)
}
