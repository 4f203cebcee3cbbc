package kafka

import (
	"Inkwell/internal/pkg/consts"
	pkgRedis "Inkwell/internal/pkg/redis"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentRow(articleID, approved, deleted string) map[string]interface{} {
	return map[string]interface{}{
		"article_id":  articleID,
		"user_id":     "8",
		"is_approved": approved,
		"is_deleted":  deleted,
	}
}

// 级联软删在一条 UPDATE 消息里携带多行，计数要逐行扣减
func TestCommentCascadeSoftDeleteDecrementsPerRow(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()
	handler := NewCommentsHandler(nil, nil)

	require.NoError(t, pkgRedis.SetWithExpiration(ctx, consts.ArticleCommentKey+"7", 10, time.Minute))

	msg := &CanalMessage{
		Type: UPDATE,
		Data: []map[string]interface{}{
			commentRow("7", "1", "1"),
			commentRow("7", "1", "1"),
			commentRow("7", "1", "1"),
		},
		Old: []map[string]interface{}{
			{"is_deleted": "0"},
			{"is_deleted": "0"},
			{"is_deleted": "0"},
		},
	}
	require.NoError(t, handler.handleUpdate(ctx, msg))

	count, err := pkgRedis.GetInt64(ctx, consts.ArticleCommentKey+"7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	// 未过审的行不影响计数
	msg = &CanalMessage{
		Type: UPDATE,
		Data: []map[string]interface{}{commentRow("7", "0", "1")},
		Old:  []map[string]interface{}{{"is_deleted": "0"}},
	}
	require.NoError(t, handler.handleUpdate(ctx, msg))
	count, err = pkgRedis.GetInt64(ctx, consts.ArticleCommentKey+"7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestCommentHardDeleteMultiRow(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()
	handler := NewCommentsHandler(nil, nil)

	require.NoError(t, pkgRedis.SetWithExpiration(ctx, consts.ArticleCommentKey+"7", 5, time.Minute))

	msg := &CanalMessage{
		Type: DELETE,
		Data: []map[string]interface{}{
			commentRow("7", "1", "0"),
			commentRow("7", "1", "0"),
			commentRow("7", "0", "0"),
		},
	}
	require.NoError(t, handler.handleDelete(ctx, msg))

	count, err := pkgRedis.GetInt64(ctx, consts.ArticleCommentKey+"7")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
