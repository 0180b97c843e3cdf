//go:build container

package mongodb

import (
	"context"
	"testing"

	"candle-backend/internal/repository/repotest"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func TestContract(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcmongo.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	repos, err := Open(ctx, uri, "candle_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close(context.Background()) })

	repotest.Run(t, repos)
}
