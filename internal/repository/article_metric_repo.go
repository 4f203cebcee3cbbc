package repository

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleMetricRepo interface {
	SaveOrUpdateMetric(ctx context.Context, metric *model.ArticleDailyMetric) error
	IncrementShare(ctx context.Context, articleID uint64, date time.Time) error
	GetArticleMetricsBy7Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error)
	GetArticleMetricsBy30Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error)
	GetLatestMetricBefore(ctx context.Context, articleID uint64, date time.Time) (*model.ArticleDailyMetric, error)
}

type articleMetricRepoImpl struct {
	db *gorm.DB
}

func NewArticleMetricRepo(db *gorm.DB) ArticleMetricRepo {
	return &articleMetricRepoImpl{db: db}
}

// SaveOrUpdateMetric 采用 Upsert 逻辑。如果 article_id + metric_date 已存在，则更新各项数值
func (r *articleMetricRepoImpl) SaveOrUpdateMetric(ctx context.Context, metric *model.ArticleDailyMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"views",
			"likes",
			"comments",
		}),
	}).Create(metric).Error
}

// IncrementShare 分享数在当天行上原子自增，行不存在则插入
func (r *articleMetricRepoImpl) IncrementShare(ctx context.Context, articleID uint64, date time.Time) error {
	metric := &model.ArticleDailyMetric{
		ArticleID:  articleID,
		MetricDate: date,
		Shares:     1,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}, {Name: "metric_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"shares": gorm.Expr("shares + 1"),
		}),
	}).Create(metric).Error
}

// GetArticleMetricsBy7Days 获取文章最近 7 天的趋势数据
func (r *articleMetricRepoImpl) GetArticleMetricsBy7Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error) {
	metrics := make([]*model.ArticleDailyMetric, 0)
	result := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Where("metric_date >= ?", util.GetMidnight(time.Now()).AddDate(0, 0, -7)).
		Order("metric_date ASC").
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}

// GetArticleMetricsBy30Days 获取文章最近 30 天的趋势数据
func (r *articleMetricRepoImpl) GetArticleMetricsBy30Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error) {
	metrics := make([]*model.ArticleDailyMetric, 0)
	result := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Where("metric_date >= ?", util.GetMidnight(time.Now()).AddDate(0, 0, -30)).
		Order("metric_date ASC").
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}

// GetLatestMetricBefore 获取指定日期前最近的一条指标记录（常用于计算增量）
func (r *articleMetricRepoImpl) GetLatestMetricBefore(ctx context.Context, articleID uint64, date time.Time) (*model.ArticleDailyMetric, error) {
	var metric model.ArticleDailyMetric
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND metric_date < ?", articleID, date).
		Order("metric_date DESC").
		First(&metric).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}
