package kafka

import (
	"Inkwell/internal/pkg/consts"
	pkgRedis "Inkwell/internal/pkg/redis"
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) {
	s := miniredis.RunT(t)
	pkgRedis.Rdb = goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = pkgRedis.Rdb.Close()
		pkgRedis.Rdb = nil
	})
}

func TestExecAction(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	// 缓存已热时增减计数
	require.NoError(t, pkgRedis.SetWithExpiration(ctx, consts.ArticleLikeKey+"42", 10, time.Minute))

	notified := false
	ExecAction(ctx, ActionParams{
		TargetID:       42,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    true,
		NotifyFunc:     func() { notified = true },
	})

	count, err := pkgRedis.GetInt64(ctx, consts.ArticleLikeKey+"42")
	require.NoError(t, err)
	assert.Equal(t, int64(11), count)
	assert.True(t, notified)

	dirty, err := pkgRedis.GetSet(ctx, consts.ArticleDirtyKey)
	require.NoError(t, err)
	assert.Contains(t, dirty, "42")

	ExecAction(ctx, ActionParams{
		TargetID:       42,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    false,
	})
	count, err = pkgRedis.GetInt64(ctx, consts.ArticleLikeKey+"42")
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)
}

func TestExecActionColdCache(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	// 缓存未热时不产生脏计数，但仍标记脏数据
	ExecAction(ctx, ActionParams{
		TargetID:       7,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    true,
	})

	_, err := pkgRedis.GetInt64(ctx, consts.ArticleLikeKey+"7")
	assert.ErrorIs(t, err, goredis.Nil)

	dirty, err := pkgRedis.GetSet(ctx, consts.ArticleDirtyKey)
	require.NoError(t, err)
	assert.Contains(t, dirty, "7")
}

func TestExecActionZeroTarget(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	ExecAction(ctx, ActionParams{
		TargetID:       0,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    true,
	})

	dirty, err := pkgRedis.GetSet(ctx, consts.ArticleDirtyKey)
	require.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestStrConversions(t *testing.T) {
	assert.Equal(t, uint64(123), StrToUint64("123"))
	assert.Equal(t, uint64(0), StrToUint64(nil))
	assert.Equal(t, uint64(0), StrToUint64("abc"))

	assert.Equal(t, 7, StrToInt("7"))
	assert.Equal(t, 0, StrToInt(nil))

	assert.Equal(t, "x", StrToString("x"))
	assert.Equal(t, "", StrToString(nil))
}

func TestToCanalMessage(t *testing.T) {
	raw := []byte(`{"data":[{"id":"1","article_id":"42"}],"type":"INSERT","table":"likes"}`)
	msg := &sarama.ConsumerMessage{Value: raw}

	canalMsg, err := ToCanalMessage(msg, "likes")
	require.NoError(t, err)
	assert.Equal(t, INSERT, canalMsg.Type)
	assert.Equal(t, uint64(42), StrToUint64(canalMsg.Data[0]["article_id"]))

	_, err = ToCanalMessage(msg, "comments")
	assert.Error(t, err)

	empty := &sarama.ConsumerMessage{Value: []byte(`{"data":[],"type":"INSERT","table":"likes"}`)}
	_, err = ToCanalMessage(empty, "likes")
	assert.Error(t, err)

	garbage := &sarama.ConsumerMessage{Value: []byte(`not-json`)}
	_, err = ToCanalMessage(garbage, "likes")
	assert.Error(t, err)
}
