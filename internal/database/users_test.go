package database

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ecomlens/internal/models"
	"ecomlens/internal/users"

	"github.com/stretchr/testify/require"
)

func resetUsers(t *testing.T) {
	t.Helper()
	_, err := testStore.pool.Exec(context.Background(), `TRUNCATE users`)
	require.NoError(t, err)
}

func createUser(t *testing.T, id, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:            id,
		Email:         email,
		Role:          models.RoleUser,
		UsageLimit:    5,
		LastResetDate: "2024-06-01",
	}
	require.NoError(t, testStore.Create(context.Background(), u))
	return u
}

func TestCreateAndList(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()

	createUser(t, "u-1", "first@example.com")
	createUser(t, "u-2", "second@example.com")

	list, err := testStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "u-1", list[0].ID)
	require.Equal(t, "u-2", list[1].ID)
	require.Equal(t, "2024-06-01", list[0].LastResetDate)
	require.False(t, list[0].CreatedAt.IsZero())

	err = testStore.Create(ctx, &models.User{ID: "u-3", Email: "FIRST@example.com", Role: models.RoleUser, LastResetDate: "2024-06-01"})
	require.ErrorIs(t, err, users.ErrDuplicateUser)
}

func TestFindByEmail(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	createUser(t, "u-1", "shop@example.com")

	found, err := testStore.FindByEmail(ctx, "Shop@Example.com")
	require.NoError(t, err)
	require.Equal(t, "u-1", found.ID)

	_, err = testStore.FindByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = testStore.GetByID(ctx, "missing")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestSeedIfEmpty(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	admin := &models.User{
		ID:            users.AdminID,
		Email:         users.DefaultAdminEmail,
		Role:          models.RoleAdmin,
		UsageLimit:    users.DefaultAdminLimit,
		LastResetDate: "2024-06-01",
	}

	seeded, err := testStore.SeedIfEmpty(ctx, admin)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = testStore.SeedIfEmpty(ctx, admin)
	require.NoError(t, err)
	require.False(t, seeded)

	list, err := testStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].IsAdmin())
	require.Equal(t, users.DefaultAdminLimit, list[0].UsageLimit)
}

func TestIncrementUsageConcurrent(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	createUser(t, "u-1", "busy@example.com")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := testStore.IncrementUsage(ctx, "u-1")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := testStore.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, n, u.UsageCount)

	_, err = testStore.IncrementUsage(ctx, "ghost")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestResetUsageIfStale(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	createUser(t, "u-1", "daily@example.com")

	for i := 0; i < 3; i++ {
		_, err := testStore.IncrementUsage(ctx, "u-1")
		require.NoError(t, err)
	}

	u, err := testStore.ResetUsageIfStale(ctx, "u-1", "2024-06-01")
	require.NoError(t, err)
	require.Equal(t, 3, u.UsageCount)

	u, err = testStore.ResetUsageIfStale(ctx, "u-1", "2024-06-02")
	require.NoError(t, err)
	require.Equal(t, 0, u.UsageCount)
	require.Equal(t, "2024-06-02", u.LastResetDate)

	_, err = testStore.ResetUsageIfStale(ctx, "ghost", "2024-06-02")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestSetLimitAndUpsert(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	u := createUser(t, "u-1", "limits@example.com")

	updated, err := testStore.SetLimit(ctx, "u-1", 42)
	require.NoError(t, err)
	require.Equal(t, 42, updated.UsageLimit)

	u.UsageCount = 2
	u.UsageLimit = 7
	require.NoError(t, testStore.Upsert(ctx, u))

	got, err := testStore.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 2, got.UsageCount)
	require.Equal(t, 7, got.UsageLimit)

	require.NoError(t, testStore.Upsert(ctx, &models.User{ID: "ghost", Email: "ghost@example.com", Role: models.RoleUser, LastResetDate: "2024-06-01"}))
	_, err = testStore.GetByID(ctx, "ghost")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestAdjustLimitConcurrent(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	createUser(t, "u-1", "limits@example.com")

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := testStore.AdjustLimit(ctx, "u-1", 5)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := testStore.AdjustLimit(ctx, "u-1", 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	u, err := testStore.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 5+n*8, u.UsageLimit)

	u, err = testStore.AdjustLimit(ctx, "u-1", -1000)
	require.NoError(t, err)
	require.Equal(t, 0, u.UsageLimit)

	u, err = testStore.AdjustLimit(ctx, "u-1", int(^uint(0)>>1))
	require.NoError(t, err)
	require.Equal(t, users.MaxUsageLimit, u.UsageLimit)

	_, err = testStore.AdjustLimit(ctx, "ghost", 5)
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestExecTxRollsBack(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()

	err := testStore.ExecTx(ctx, func(q *Queries) error {
		if err := q.Create(ctx, &models.User{ID: "tx-1", Email: "tx@example.com", Role: models.RoleUser, LastResetDate: "2024-06-01"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	_, err = testStore.GetByID(ctx, "tx-1")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}
