package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type ArticleMetricService interface {
	// SyncArticleMetric 同步文章每日指标快照
	SyncArticleMetric(ctx context.Context, articleID uint64) error
	// TrackShare 分享计数直接落到当日行
	TrackShare(ctx context.Context, articleID uint64) error
	// GetArticleMetricsBy7Days 获取最近7天全维度趋势数据
	GetArticleMetricsBy7Days(ctx context.Context, articleID uint64, userID uint64, isAdmin bool) (*dto.ArticleTrendDTO, error)
	// GetArticleMetricsBy30Days 获取最近30天全维度趋势数据
	GetArticleMetricsBy30Days(ctx context.Context, articleID uint64, userID uint64, isAdmin bool) (*dto.ArticleTrendDTO, error)
}

type articleMetricServiceImpl struct {
	metricRepo  repository.ArticleMetricRepo
	articleRepo repository.ArticleRepo
}

func NewArticleMetricService(metricRepo repository.ArticleMetricRepo, articleRepo repository.ArticleRepo) ArticleMetricService {
	return &articleMetricServiceImpl{
		metricRepo:  metricRepo,
		articleRepo: articleRepo,
	}
}

// SyncArticleMetric 实现：将 articles 表的实时计数刷入每日指标表
func (s *articleMetricServiceImpl) SyncArticleMetric(ctx context.Context, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}

	today := util.GetMidnight(time.Now())
	metric := &model.ArticleDailyMetric{
		ArticleID:  articleID,
		MetricDate: today,
		Views:      article.ViewsCount,
		Likes:      article.LikesCount,
		Comments:   article.CommentsCount,
	}

	if err = s.metricRepo.SaveOrUpdateMetric(ctx, metric); err != nil {
		return err
	}

	_ = redis.DeleteKey(ctx, consts.ArticleMetrics7Key+strconv.FormatUint(articleID, 10))
	_ = redis.DeleteKey(ctx, consts.ArticleMetrics30Key+strconv.FormatUint(articleID, 10))

	return nil
}

func (s *articleMetricServiceImpl) TrackShare(ctx context.Context, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.Status != consts.ArticleStatusApproved || article.IsHidden {
		return ErrArticleNotVisible
	}
	return s.metricRepo.IncrementShare(ctx, articleID, util.GetMidnight(time.Now()))
}

func (s *articleMetricServiceImpl) GetArticleMetricsBy7Days(ctx context.Context, articleID uint64, userID uint64, isAdmin bool) (*dto.ArticleTrendDTO, error) {
	key := consts.ArticleMetrics7Key + strconv.FormatUint(articleID, 10)
	return s.getArticleMetrics(ctx, articleID, userID, isAdmin, key, 7, func() ([]*model.ArticleDailyMetric, error) {
		return s.metricRepo.GetArticleMetricsBy7Days(ctx, articleID)
	})
}

func (s *articleMetricServiceImpl) GetArticleMetricsBy30Days(ctx context.Context, articleID uint64, userID uint64, isAdmin bool) (*dto.ArticleTrendDTO, error) {
	key := consts.ArticleMetrics30Key + strconv.FormatUint(articleID, 10)
	return s.getArticleMetrics(ctx, articleID, userID, isAdmin, key, 30, func() ([]*model.ArticleDailyMetric, error) {
		return s.metricRepo.GetArticleMetricsBy30Days(ctx, articleID)
	})
}

// getArticleMetrics 聚合查询与数据平滑逻辑，只有作者和管理员可见
func (s *articleMetricServiceImpl) getArticleMetrics(
	ctx context.Context,
	articleID uint64,
	userID uint64,
	isAdmin bool,
	key string,
	days int,
	fetchDB func() ([]*model.ArticleDailyMetric, error),
) (*dto.ArticleTrendDTO, error) {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if article.AuthorID != userID && !isAdmin {
		return nil, UnauthorizedError
	}

	if val, err := redis.GetValue(ctx, key); err == nil && val != "" {
		var res dto.ArticleTrendDTO
		_ = json.Unmarshal([]byte(val), &res)
		return &res, nil
	}

	rawData, err := fetchDB()
	if err != nil {
		return nil, err
	}

	startTime := util.GetMidnight(time.Now()).AddDate(0, 0, -days)
	var baseline *model.ArticleDailyMetric
	if len(rawData) == 0 || !rawData[0].MetricDate.Equal(startTime) {
		baseline, _ = s.metricRepo.GetLatestMetricBefore(ctx, articleID, startTime)
	} else {
		baseline = rawData[0]
	}

	dataMap := make(map[string]*model.ArticleDailyMetric)
	for _, m := range rawData {
		dataMap[m.MetricDate.Format(time.DateOnly)] = m
	}

	res := &dto.ArticleTrendDTO{
		ArticleID: articleID,
		Days:      days,
		Views:     make([]*dto.ArticleMetricDTO, 0, days),
		Likes:     make([]*dto.ArticleMetricDTO, 0, days),
		Comments:  make([]*dto.ArticleMetricDTO, 0, days),
		Shares:    make([]*dto.ArticleMetricDTO, 0, days),
	}

	var lastValid = baseline
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		currentDate := util.GetMidnight(now.AddDate(0, 0, -i))
		dateStr := currentDate.Format(time.DateOnly)

		v, l, c, sh := 0, 0, 0, 0
		if val, ok := dataMap[dateStr]; ok {
			v, l, c, sh = val.Views, val.Likes, val.Comments, val.Shares
			lastValid = val
		} else if lastValid != nil {
			// 分享是当日增量，不随基线平滑
			v, l, c = lastValid.Views, lastValid.Likes, lastValid.Comments
		}

		res.Views = append(res.Views, &dto.ArticleMetricDTO{Date: dateStr, Value: v})
		res.Likes = append(res.Likes, &dto.ArticleMetricDTO{Date: dateStr, Value: l})
		res.Comments = append(res.Comments, &dto.ArticleMetricDTO{Date: dateStr, Value: c})
		res.Shares = append(res.Shares, &dto.ArticleMetricDTO{Date: dateStr, Value: sh})
	}

	_ = redis.SetWithMidnightExpiration(ctx, key, res)

	return res, nil
}
