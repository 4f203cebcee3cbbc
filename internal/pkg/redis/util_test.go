package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	s := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = Rdb.Close()
		Rdb = nil
	})
	return s
}

func TestIncrByIfExists(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	// 键不存在时不产生脏值
	require.NoError(t, IncrByIfExists(ctx, "counter", 1))
	_, err := GetInt64(ctx, "counter")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, SetWithExpiration(ctx, "counter", 10, time.Minute))
	require.NoError(t, IncrByIfExists(ctx, "counter", 3))
	got, err := GetInt64(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(13), got)

	require.NoError(t, IncrByIfExists(ctx, "counter", -5))
	got, err = GetInt64(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}

func TestGetValueMissingKey(t *testing.T) {
	setupTestRedis(t)

	value, err := GetValue(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSetWithMidnightExpiration(t *testing.T) {
	s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetWithMidnightExpiration(ctx, "trend", map[string]int{"a": 1}))

	value, err := GetValue(ctx, "trend")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, value)

	// 过期时间不超过次日零点
	ttl := s.TTL("trend")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}

func TestDirtySetRotation(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SAdd(ctx, "dirty", "1", "2"))
	require.NoError(t, Rename(ctx, "dirty", "dirty:processing"))

	members, err := GetSet(ctx, "dirty:processing")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, members)

	require.NoError(t, DeleteKey(ctx, "dirty:processing"))
	members, err = GetSet(ctx, "dirty:processing")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestTryLock(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock", "a", time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// 已被占用时抢锁失败
	ok, err = TryLock(ctx, "lock", "b", time.Minute, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	UnLock(ctx, "lock", "a")
	ok, err = TryLock(ctx, "lock", "b", time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
