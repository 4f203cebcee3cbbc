package kafka

import (
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// ActionParams 计数动作参数
type ActionParams struct {
	TargetID       uint64
	CountKeyPrefix string
	DirtyKey       string
	IsIncrement    bool
	NotifyFunc     func()
}

// ExecAction 统一执行计数更新：热缓存增减 + 标记脏数据
func ExecAction(ctx context.Context, params ActionParams) {
	if params.TargetID == 0 {
		return
	}

	delta := int64(1)
	if !params.IsIncrement {
		delta = -1
	}

	idStr := strconv.FormatUint(params.TargetID, 10)
	if err := redis.IncrByIfExists(ctx, params.CountKeyPrefix+idStr, delta); err != nil {
		log.ErrorContext(ctx, "failed to update counter cache", "targetID", params.TargetID, "err", err)
	}

	if err := redis.SAdd(ctx, params.DirtyKey, idStr); err != nil {
		log.ErrorContext(ctx, "failed to mark dirty", "targetID", params.TargetID, "err", err)
	}

	if params.NotifyFunc != nil {
		params.NotifyFunc()
	}
}

// StrToUint64 Canal 行数据取 uint64
func StrToUint64(v interface{}) uint64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// StrToInt Canal 行数据取 int
func StrToInt(v interface{}) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// StrToString Canal 行数据取 string
func StrToString(v interface{}) string {
	s, _ := v.(string)
	return s
}
