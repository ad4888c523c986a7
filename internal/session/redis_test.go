package session

import (
	"context"
	"testing"
	"time"

	"ecomlens/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisStore_SetGetDeleteAndExpiry(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	store := NewRedisStore(rdb, time.Second)
	require.NoError(t, store.Ping(ctx))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.Set(ctx, &models.Session{ID: "s1", UserID: "u1"}))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.Set(ctx, &models.Session{ID: "s2", UserID: "u2"}))
	require.Eventually(t, func() bool {
		got, err := store.Get(ctx, "s2")
		return err == nil && got == nil
	}, 5*time.Second, 100*time.Millisecond)
}
