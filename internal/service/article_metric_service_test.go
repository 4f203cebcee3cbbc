package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	pkgRedis "Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricDayKey struct {
	articleID uint64
	date      string
}

type fakeMetricRepo struct {
	metrics map[metricDayKey]*model.ArticleDailyMetric
}

func newFakeMetricRepo() *fakeMetricRepo {
	return &fakeMetricRepo{metrics: make(map[metricDayKey]*model.ArticleDailyMetric)}
}

func (f *fakeMetricRepo) key(articleID uint64, date time.Time) metricDayKey {
	return metricDayKey{articleID, date.Format(time.DateOnly)}
}

func (f *fakeMetricRepo) SaveOrUpdateMetric(ctx context.Context, metric *model.ArticleDailyMetric) error {
	k := f.key(metric.ArticleID, metric.MetricDate)
	if existing, ok := f.metrics[k]; ok {
		// 分享计数不被快照覆盖
		existing.Views = metric.Views
		existing.Likes = metric.Likes
		existing.Comments = metric.Comments
		return nil
	}
	f.metrics[k] = metric
	return nil
}

func (f *fakeMetricRepo) IncrementShare(ctx context.Context, articleID uint64, date time.Time) error {
	k := f.key(articleID, date)
	if existing, ok := f.metrics[k]; ok {
		existing.Shares++
		return nil
	}
	f.metrics[k] = &model.ArticleDailyMetric{ArticleID: articleID, MetricDate: date, Shares: 1}
	return nil
}

func (f *fakeMetricRepo) rangeMetrics(articleID uint64, days int) []*model.ArticleDailyMetric {
	start := util.GetMidnight(time.Now()).AddDate(0, 0, -days)
	res := make([]*model.ArticleDailyMetric, 0)
	for d := 0; d <= days; d++ {
		date := start.AddDate(0, 0, d)
		if m, ok := f.metrics[f.key(articleID, date)]; ok {
			res = append(res, m)
		}
	}
	return res
}

func (f *fakeMetricRepo) GetArticleMetricsBy7Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error) {
	return f.rangeMetrics(articleID, 7), nil
}

func (f *fakeMetricRepo) GetArticleMetricsBy30Days(ctx context.Context, articleID uint64) ([]*model.ArticleDailyMetric, error) {
	return f.rangeMetrics(articleID, 30), nil
}

func (f *fakeMetricRepo) GetLatestMetricBefore(ctx context.Context, articleID uint64, date time.Time) (*model.ArticleDailyMetric, error) {
	var latest *model.ArticleDailyMetric
	for _, m := range f.metrics {
		if m.ArticleID != articleID || !m.MetricDate.Before(date) {
			continue
		}
		if latest == nil || m.MetricDate.After(latest.MetricDate) {
			latest = m
		}
	}
	return latest, nil
}

type metricServiceFixture struct {
	svc         ArticleMetricService
	metricRepo  *fakeMetricRepo
	articleRepo *fakeArticleRepo
}

func newMetricServiceFixture(t *testing.T) *metricServiceFixture {
	s := miniredis.RunT(t)
	pkgRedis.Rdb = goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = pkgRedis.Rdb.Close()
		pkgRedis.Rdb = nil
	})

	metricRepo := newFakeMetricRepo()
	articleRepo := newFakeArticleRepo()
	articleRepo.articles[1] = &model.Article{
		ID: 1, AuthorID: 7, Status: consts.ArticleStatusApproved,
		ViewsCount: 40, LikesCount: 12, CommentsCount: 3,
	}
	articleRepo.nextID = 2

	return &metricServiceFixture{
		svc:         NewArticleMetricService(metricRepo, articleRepo),
		metricRepo:  metricRepo,
		articleRepo: articleRepo,
	}
}

func TestSyncArticleMetricSnapshot(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()
	today := util.GetMidnight(time.Now())

	// 先有分享，再刷快照，分享数不能被清零
	require.NoError(t, fx.svc.TrackShare(ctx, 1))
	require.NoError(t, fx.svc.TrackShare(ctx, 1))
	require.NoError(t, fx.svc.SyncArticleMetric(ctx, 1))

	m := fx.metricRepo.metrics[fx.metricRepo.key(1, today)]
	require.NotNil(t, m)
	assert.Equal(t, 40, m.Views)
	assert.Equal(t, 12, m.Likes)
	assert.Equal(t, 3, m.Comments)
	assert.Equal(t, 2, m.Shares)

	assert.ErrorIs(t, fx.svc.SyncArticleMetric(ctx, 99), ErrArticleNotFound)
}

func TestTrackShareVisibility(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()

	fx.articleRepo.articles[2] = &model.Article{ID: 2, AuthorID: 7, Status: consts.ArticleStatusDraft}

	assert.ErrorIs(t, fx.svc.TrackShare(ctx, 2), ErrArticleNotVisible)
	assert.ErrorIs(t, fx.svc.TrackShare(ctx, 99), ErrArticleNotFound)
}

func TestGetArticleMetricsAccess(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()

	// 其他用户无权查看趋势
	_, err := fx.svc.GetArticleMetricsBy7Days(ctx, 1, 8, false)
	assert.ErrorIs(t, err, UnauthorizedError)

	// 作者和管理员可以
	_, err = fx.svc.GetArticleMetricsBy7Days(ctx, 1, 7, false)
	require.NoError(t, err)
	_, err = fx.svc.GetArticleMetricsBy7Days(ctx, 1, 8, true)
	require.NoError(t, err)
}

func TestGetArticleMetricsBaselineSmoothing(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()
	today := util.GetMidnight(time.Now())

	// 仅三天前有快照，中间空洞按基线补齐
	threeDaysAgo := today.AddDate(0, 0, -3)
	fx.metricRepo.metrics[fx.metricRepo.key(1, threeDaysAgo)] = &model.ArticleDailyMetric{
		ArticleID: 1, MetricDate: threeDaysAgo, Views: 10, Likes: 4, Comments: 1, Shares: 6,
	}

	res, err := fx.svc.GetArticleMetricsBy7Days(ctx, 1, 7, false)
	require.NoError(t, err)
	require.Len(t, res.Views, 7)
	require.Len(t, res.Shares, 7)

	last := len(res.Views) - 1
	// 今天没有快照，沿用最近一次有效值
	assert.Equal(t, 10, res.Views[last].Value)
	assert.Equal(t, 4, res.Likes[last].Value)
	assert.Equal(t, 1, res.Comments[last].Value)
	// 分享是当日增量，空洞日为 0
	assert.Equal(t, 0, res.Shares[last].Value)

	snapshotIdx := last - 3
	assert.Equal(t, 10, res.Views[snapshotIdx].Value)
	assert.Equal(t, 6, res.Shares[snapshotIdx].Value)

	// 快照日之前没有任何数据，值为 0
	assert.Equal(t, 0, res.Views[0].Value)
}

func TestGetArticleMetricsCached(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()

	res, err := fx.svc.GetArticleMetricsBy30Days(ctx, 1, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Days)

	// 第二次读命中缓存，即使底层数据变化结果不变
	fx.metricRepo.metrics = map[metricDayKey]*model.ArticleDailyMetric{}
	cached, err := fx.svc.GetArticleMetricsBy30Days(ctx, 1, 7, false)
	require.NoError(t, err)
	assert.Equal(t, res.Days, cached.Days)
	assert.Len(t, cached.Views, 30)

	// 快照刷新会清掉缓存
	require.NoError(t, fx.svc.SyncArticleMetric(ctx, 1))
	val, err := pkgRedis.GetValue(ctx, consts.ArticleMetrics30Key+"1")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestGetArticleMetricsWindowEdgeBaseline(t *testing.T) {
	fx := newMetricServiceFixture(t)
	ctx := context.Background()
	today := util.GetMidnight(time.Now())

	// 快照正好落在窗口边界（今天-7），必须被当成基线而不是被截掉
	edge := today.AddDate(0, 0, -7)
	fx.metricRepo.metrics[fx.metricRepo.key(1, edge)] = &model.ArticleDailyMetric{
		ArticleID: 1, MetricDate: edge, Views: 10, Likes: 2, Comments: 1, Shares: 5,
	}

	res, err := fx.svc.GetArticleMetricsBy7Days(ctx, 1, 7, false)
	require.NoError(t, err)
	require.Len(t, res.Views, 7)

	// 窗口内全是空洞日，逐日沿用边界快照的累计值
	for i := 0; i < 7; i++ {
		assert.Equal(t, 10, res.Views[i].Value)
		assert.Equal(t, 2, res.Likes[i].Value)
		assert.Equal(t, 1, res.Comments[i].Value)
		assert.Equal(t, 0, res.Shares[i].Value)
	}
}
