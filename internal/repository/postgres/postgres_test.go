//go:build container

package postgres

import (
	"context"
	"testing"

	"candle-backend/internal/repository/repotest"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestContract(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("candle"),
		tcpostgres.WithUsername("candle"),
		tcpostgres.WithPassword("candle"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repos, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close(context.Background()) })

	repotest.Run(t, repos)
}
