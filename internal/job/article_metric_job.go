package job

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

type ArticleMetricsJob struct {
	articleSvc service.ArticleService
	actionSvc  service.ArticleActionService
	metricSvc  service.ArticleMetricService
}

func NewArticleMetricsJob(
	articleSvc service.ArticleService,
	actionSvc service.ArticleActionService,
	metricSvc service.ArticleMetricService,
) *ArticleMetricsJob {
	return &ArticleMetricsJob{
		articleSvc: articleSvc,
		actionSvc:  actionSvc,
		metricSvc:  metricSvc,
	}
}

func (s *ArticleMetricsJob) Run() {
	traceID := "job-article-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.ArticleDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.ArticleDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get article dirty set error", "err", err)
		return
	}

	articleIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert article set to int slice error", "err", err)
		return
	}

	for _, aid := range articleIDs {
		likes, _ := s.actionSvc.GetArticleLikeCount(ctx, aid)
		comments, _ := s.actionSvc.GetArticleCommentCount(ctx, aid)
		views, _ := s.actionSvc.GetArticleViewCount(ctx, aid)

		err = s.articleSvc.UpdateArticleCounts(ctx, aid, likes, comments, views)
		if err != nil {
			log.ErrorContext(ctx, "update article counts error", "aid", aid, "err", err)
			continue
		}

		err = s.metricSvc.SyncArticleMetric(ctx, aid)
		if err != nil {
			log.ErrorContext(ctx, "sync article daily metric error", "aid", aid, "err", err)
		}
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete article processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync article metrics success", "article_count", len(articleIDs))
}
