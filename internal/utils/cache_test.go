package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCache_SetGetDelete(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	var got map[string]int
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", map[string]int{"balance": 7}, time.Minute))
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 7, got["balance"])

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", 1, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, "k"))
	require.False(t, mr.Exists("k"))
}

func TestInvalidateUser(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, WalletKey("u1"), 10, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, TxHistoryKey("u1", 1, 20), "p1", time.Minute))
	require.NoError(t, SetCache(ctx, rdb, TxHistoryKey("u1", 7, 50), "p7", time.Minute))
	require.NoError(t, SetCache(ctx, rdb, WalletKey("u2"), 20, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, AdminUsersKey(1, 20), "users", time.Minute))
	require.NoError(t, SetCache(ctx, rdb, AdminTransactionsKey("type=USAGE", "page=1"), "txs", time.Minute))

	require.NoError(t, InvalidateUser(ctx, rdb, "u1"))

	require.False(t, mr.Exists(WalletKey("u1")))
	require.False(t, mr.Exists(TxHistoryKey("u1", 1, 20)))
	require.False(t, mr.Exists(TxHistoryKey("u1", 7, 50)))
	require.True(t, mr.Exists(WalletKey("u2")))
	require.False(t, mr.Exists(AdminUsersKey(1, 20)))
	require.False(t, mr.Exists(AdminTransactionsKey("type=USAGE", "page=1")))
}

func TestLock(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	token, err := AcquireLock(ctx, rdb, "grant:ref:X", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	other, err := AcquireLock(ctx, rdb, "grant:ref:X", time.Minute)
	require.NoError(t, err)
	require.Empty(t, other)

	require.NoError(t, ReleaseLock(ctx, rdb, "grant:ref:X", token))
	token, err = AcquireLock(ctx, rdb, "grant:ref:X", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestLock_ReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	stale, err := AcquireLock(ctx, rdb, "grant:ref:X", time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, stale)

	mr.FastForward(2 * time.Second) // first holder overran its TTL
	current, err := AcquireLock(ctx, rdb, "grant:ref:X", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, current)

	require.NoError(t, ReleaseLock(ctx, rdb, "grant:ref:X", stale))
	require.True(t, mr.Exists("grant:ref:X"), "stale release must not drop the new lock")
	got, err := mr.Get("grant:ref:X")
	require.NoError(t, err)
	require.Equal(t, current, got)

	require.NoError(t, ReleaseLock(ctx, rdb, "grant:ref:X", current))
	require.False(t, mr.Exists("grant:ref:X"))
}
