package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrendingRepo struct {
	rows []*repository.TrendingRow
	err  error
}

func (f *fakeTrendingRepo) GetEngagementRows(ctx context.Context, viewsSince time.Time) ([]*repository.TrendingRow, error) {
	return f.rows, f.err
}

func trendingRow(id uint64, likes, comments, viewsToday int64, createdAt time.Time) *repository.TrendingRow {
	return &repository.TrendingRow{
		ArticleID:     id,
		Title:         "title",
		Slug:          "slug",
		LikesCount:    likes,
		CommentsCount: comments,
		ViewsToday:    viewsToday,
		CreatedAt:     createdAt,
	}
}

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, BadgeViral, BadgeFor(60))
	assert.Equal(t, BadgeViral, BadgeFor(50))
	assert.Equal(t, BadgeTrending, BadgeFor(49))
	assert.Equal(t, BadgeTrending, BadgeFor(25))
	assert.Equal(t, BadgeTrending, BadgeFor(20))
	assert.Equal(t, BadgePopular, BadgeFor(19))
	assert.Equal(t, BadgePopular, BadgeFor(10))
	assert.Equal(t, BadgeNew, BadgeFor(9))
	assert.Equal(t, BadgeNew, BadgeFor(0))
}

func TestRankTrendingRowsByEngagement(t *testing.T) {
	now := time.Now()
	rows := []*repository.TrendingRow{
		trendingRow(1, 0, 0, 100, now),
		trendingRow(2, 60, 0, 0, now),
		trendingRow(3, 15, 10, 0, now),
	}

	RankTrendingRows(rows)

	// 浏览量不计入热度，互动量决定排名
	assert.Equal(t, uint64(2), rows[0].ArticleID)
	assert.Equal(t, uint64(3), rows[1].ArticleID)
	assert.Equal(t, uint64(1), rows[2].ArticleID)
}

func TestRankTrendingRowsTieBreak(t *testing.T) {
	now := time.Now()
	older := now.Add(-48 * time.Hour)

	// 互动量并列时先比当日浏览
	rows := []*repository.TrendingRow{
		trendingRow(1, 5, 5, 3, now),
		trendingRow(2, 10, 0, 9, now),
	}
	RankTrendingRows(rows)
	assert.Equal(t, uint64(2), rows[0].ArticleID)

	// 浏览也并列时新文章优先
	rows = []*repository.TrendingRow{
		trendingRow(1, 5, 5, 3, older),
		trendingRow(2, 10, 0, 3, now),
	}
	RankTrendingRows(rows)
	assert.Equal(t, uint64(2), rows[0].ArticleID)
	assert.Equal(t, uint64(1), rows[1].ArticleID)
}

func TestGetTrendingArticles(t *testing.T) {
	now := time.Now()
	repo := &fakeTrendingRepo{
		rows: []*repository.TrendingRow{
			trendingRow(1, 60, 0, 7, now),
			trendingRow(2, 15, 10, 0, now),
			trendingRow(3, 0, 0, 2, now),
		},
	}
	svc := NewTrendingService(repo)

	res, err := svc.GetTrendingArticles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, res.List, 3)

	assert.Equal(t, 1, res.List[0].Rank)
	assert.Equal(t, uint64(1), res.List[0].ArticleID)
	assert.Equal(t, int64(60), res.List[0].TotalEngagement)
	assert.Equal(t, BadgeViral, res.List[0].Badge)

	assert.Equal(t, 2, res.List[1].Rank)
	assert.Equal(t, int64(25), res.List[1].TotalEngagement)
	assert.Equal(t, BadgeTrending, res.List[1].Badge)

	assert.Equal(t, 3, res.List[2].Rank)
	assert.Equal(t, int64(0), res.List[2].TotalEngagement)
	assert.Equal(t, BadgeNew, res.List[2].Badge)

	assert.NotEmpty(t, res.GeneratedAt)
}

func TestGetTrendingArticlesLimit(t *testing.T) {
	now := time.Now()
	rows := make([]*repository.TrendingRow, 0, 60)
	for i := 1; i <= 60; i++ {
		rows = append(rows, trendingRow(uint64(i), int64(i), 0, 0, now))
	}
	svc := NewTrendingService(&fakeTrendingRepo{rows: rows})

	res, err := svc.GetTrendingArticles(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, res.List, 5)
	// 互动量最高的排第一
	assert.Equal(t, uint64(60), res.List[0].ArticleID)

	// 超出上限时按上限截断
	res, err = svc.GetTrendingArticles(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, res.List, TrendingMaxLimit)
}

func TestTrendingRowDenormalizedFields(t *testing.T) {
	oldCfg := config.Cfg
	config.Cfg = &config.Config{MinIO: config.MinIOConfig{ExternalEndpoint: "cdn.example.com"}}
	t.Cleanup(func() { config.Cfg = oldCfg })

	row := trendingRow(1, 60, 0, 7, time.Now())
	row.Excerpt = "first paragraph"
	row.FeaturedImage = "covers/1.png"
	row.AuthorName = "Ada"
	row.AuthorUsername = "ada"
	row.CategoryName = "Engineering"

	bare := trendingRow(2, 0, 0, 0, time.Now())

	svc := NewTrendingService(&fakeTrendingRepo{rows: []*repository.TrendingRow{row, bare}})
	res, err := svc.GetTrendingArticles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, res.List, 2)

	assert.Equal(t, "first paragraph", res.List[0].Excerpt)
	assert.Equal(t, "Ada", res.List[0].AuthorName)
	assert.Equal(t, "ada", res.List[0].AuthorUsername)
	assert.Equal(t, minio.GetPublicURL("covers/1.png"), res.List[0].FeaturedImage)

	// 没有封面图时保持为空，不拼接 URL
	assert.Empty(t, res.List[1].FeaturedImage)

	// 序列化字段名固定，前端按此取值
	raw, err := json.Marshal(res.List[0])
	require.NoError(t, err)
	for _, key := range []string{"excerpt", "featured_image", "author_username"} {
		assert.Contains(t, string(raw), `"`+key+`"`)
	}
}
