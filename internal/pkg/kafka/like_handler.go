package kafka

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

type LikesHandler struct {
	articleRepo repository.ArticleRepo
	notifyRepo  mongo.NotificationRepo
}

func NewLikesHandler(articleRepo repository.ArticleRepo, notifyRepo mongo.NotificationRepo) *LikesHandler {
	return &LikesHandler{
		articleRepo: articleRepo,
		notifyRepo:  notifyRepo,
	}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-like consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-like process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	// 1. 解析 Canal 消息
	canalMsg, err := ToCanalMessage(msg, "likes")
	if err != nil {
		return err
	}

	// 2. 点赞是物理增删，只关心 INSERT / DELETE
	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleInsert 处理新增点赞：INCR + DIRTY
func (s *LikesHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	userID, articleID := StrToUint64(row["user_id"]), StrToUint64(row["article_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       articleID,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    true,
		NotifyFunc:     func() { s.sendLikeNotification(ctx, userID, articleID) },
	})

	log.InfoContext(ctx, "article like inserted", "userID", userID, "articleID", articleID)
	return nil
}

// handleDelete 处理取消点赞：DECR + DIRTY
func (s *LikesHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	articleID := StrToUint64(msg.Data[0]["article_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       articleID,
		CountKeyPrefix: consts.ArticleLikeKey,
		DirtyKey:       consts.ArticleDirtyKey,
		IsIncrement:    false,
	})

	log.InfoContext(ctx, "article unlike processed", "articleID", articleID)
	return nil
}

// sendLikeNotification 封装通知逻辑
func (s *LikesHandler) sendLikeNotification(ctx context.Context, senderID, articleID uint64) {
	articles, err := s.articleRepo.GetArticleByIds(ctx, []uint64{articleID})
	if err != nil || len(articles) == 0 {
		log.WarnContext(ctx, "failed to get article for notification", "articleID", articleID)
		return
	}
	article := articles[0]

	if article.AuthorID == senderID {
		return
	}

	notification := &mongo.NotificationModel{
		ReceiverID: article.AuthorID,
		SenderID:   senderID,
		Type:       mongo.NotifyTypeArticleLiked,
		TargetID:   articleID,
		Content:    "点赞了你的文章",
		Payload: map[string]any{
			"article_title": article.Title,
			"article_slug":  article.Slug,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.notifyRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create like notification", "articleID", articleID, "err", err)
	}
}
