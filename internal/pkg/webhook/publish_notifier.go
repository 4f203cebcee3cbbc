package webhook

import (
	"Inkwell/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// PublishEvent 文章发布回调载荷
type PublishEvent struct {
	ArticleID   uint64     `json:"article_id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	AuthorID    uint64     `json:"author_id"`
	PublishedAt *time.Time `json:"published_at"`
}

type PublishNotifier interface {
	NotifyPublished(ctx context.Context, event *PublishEvent)
}

type PublishNotifierImpl struct {
	client *resty.Client
	url    string
}

// NewPublishNotifier URL 为空时回调退化为空操作
func NewPublishNotifier(cfg config.WebhookConfig) PublishNotifier {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// 失败只记日志不重试
	client := resty.New().SetTimeout(timeout)

	return &PublishNotifierImpl{
		client: client,
		url:    cfg.PublishURL,
	}
}

// NotifyPublished 异步投递发布事件，失败只记录日志不阻塞审核流程
func (s *PublishNotifierImpl) NotifyPublished(ctx context.Context, event *PublishEvent) {
	if s.url == "" {
		return
	}

	go func() {
		resp, err := s.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(event).
			Post(s.url)
		if err != nil {
			log.ErrorContext(ctx, "publish webhook failed", "articleID", event.ArticleID, "err", err)
			return
		}
		if resp.IsError() {
			log.ErrorContext(ctx, "publish webhook rejected",
				"articleID", event.ArticleID,
				"status", fmt.Sprintf("%d", resp.StatusCode()))
			return
		}
		log.InfoContext(ctx, "publish webhook delivered", "articleID", event.ArticleID)
	}()
}
