package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store/storetest"
)

func TestContract(t *testing.T) {
	dsn := os.Getenv("NUTRIVEDA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NUTRIVEDA_TEST_POSTGRES_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) domain.RemoteStore {
		ctx := context.Background()
		s, err := Open(ctx, dsn, logger.New(logger.LevelOff, nil))
		require.NoError(t, err)
		for _, table := range []string{"profiles", "saved_recipes", "shopping_items"} {
			_, err := s.DB().ExecContext(ctx, "TRUNCATE "+table)
			require.NoError(t, err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
