package kafka

import (
	"Inkwell/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type ViewsHandler struct {
	// 阅读量只做缓存计数和脏标记，不需要 Repo 补全数据
}

func NewViewsHandler() *ViewsHandler {
	return &ViewsHandler{}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article view consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article view consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-view consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-view process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "article_views")
	if err != nil {
		return err
	}

	// 阅读记录只有 INSERT (用户阅读)
	// 即使有 DELETE，也只是维护计数平衡
	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleInsert 处理新增阅读：INCR + DIRTY
func (s *ViewsHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	ExecAction(ctx, ActionParams{
		TargetID:       StrToUint64(msg.Data[0]["article_id"]),
		CountKeyPrefix: consts.ArticleViewKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    true,
	})
	return nil
}

// handleDelete 处理阅读记录删除
func (s *ViewsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	articleID := StrToUint64(msg.Data[0]["article_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       articleID,
		CountKeyPrefix: consts.ArticleViewKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    false,
	})

	log.InfoContext(ctx, "article view record deleted", "articleID", articleID)
	return nil
}
