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

type CommentsHandler struct {
	articleRepo repository.ArticleRepo
	notifyRepo  mongo.NotificationRepo
}

func NewCommentsHandler(articleRepo repository.ArticleRepo, notifyRepo mongo.NotificationRepo) *CommentsHandler {
	return &CommentsHandler{
		articleRepo: articleRepo,
		notifyRepo:  notifyRepo,
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article comment consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article comment consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

// logic 评论计数只统计已过审的评论
// INSERT 时评论尚未过审，不计数；UPDATE 关注 is_approved 与 is_deleted 两条边
func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "comments")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case UPDATE:
		return s.handleUpdate(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleUpdate 级联软删会在一条 UPDATE 消息里带多行，逐行处理
func (s *CommentsHandler) handleUpdate(ctx context.Context, msg *CanalMessage) error {
	if len(msg.Old) < len(msg.Data) {
		return nil
	}
	for i, row := range msg.Data {
		old := msg.Old[i]
		articleID := StrToUint64(row["article_id"])

		// 过审：0 -> 1
		if oldVal, ok := old["is_approved"]; ok && StrToString(oldVal) == "0" && StrToString(row["is_approved"]) == "1" {
			userID := StrToUint64(row["user_id"])
			ExecAction(ctx, ActionParams{
				TargetID:       articleID,
				CountKeyPrefix: consts.ArticleCommentKey,
				DirtyKey:       consts.ArticleDirtyKey,
				IsIncrement:    true,
				NotifyFunc:     func() { s.sendCommentNotification(ctx, userID, articleID) },
			})
			log.InfoContext(ctx, "article comment approved", "articleID", articleID)
			continue
		}

		// 软删除：0 -> 1，且删除前是过审状态
		if oldVal, ok := old["is_deleted"]; ok && StrToString(oldVal) == "0" && StrToString(row["is_deleted"]) == "1" {
			if StrToString(row["is_approved"]) == "1" {
				ExecAction(ctx, ActionParams{
					TargetID:       articleID,
					CountKeyPrefix: consts.ArticleCommentKey,
					DirtyKey:       consts.ArticleDirtyKey,
					IsIncrement:    false,
				})
			}
			log.InfoContext(ctx, "article comment soft deleted", "articleID", articleID)
		}
	}

	return nil
}

func (s *CommentsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	for _, row := range msg.Data {
		if StrToString(row["is_approved"]) != "1" || StrToString(row["is_deleted"]) == "1" {
			continue
		}
		ExecAction(ctx, ActionParams{
			TargetID:       StrToUint64(row["article_id"]),
			CountKeyPrefix: consts.ArticleCommentKey,
			DirtyKey:       consts.ArticleDirtyKey,
			IsIncrement:    false,
		})
	}
	return nil
}

// sendCommentNotification 通知文章作者有新评论
func (s *CommentsHandler) sendCommentNotification(ctx context.Context, senderID, articleID uint64) {
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
		Type:       mongo.NotifyTypeArticleCommented,
		TargetID:   articleID,
		Content:    "评论了你的文章",
		Payload: map[string]any{
			"article_title": article.Title,
			"article_slug":  article.Slug,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.notifyRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create comment notification", "articleID", articleID, "err", err)
	}
}
