package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"sort"
	"time"
)

const (
	TrendingDefaultLimit = 10
	TrendingMaxLimit     = 50

	// 徽章阈值，按总互动量划档
	BadgeViralThreshold    = 50
	BadgeTrendingThreshold = 20
	BadgePopularThreshold  = 10

	BadgeViral    = "viral"
	BadgeTrending = "trending"
	BadgePopular  = "popular"
	BadgeNew      = "new"
)

type TrendingService interface {
	GetTrendingArticles(ctx context.Context, limit int) (*dto.TrendingListDTO, error)
}

type trendingServiceImpl struct {
	trendingRepo repository.TrendingRepo
}

func NewTrendingService(trendingRepo repository.TrendingRepo) TrendingService {
	return &trendingServiceImpl{trendingRepo: trendingRepo}
}

// GetTrendingArticles 热度榜：总互动量 = 点赞数 + 已过审评论数，浏览量不计入热度
// 并列时先比当日浏览，再比创建时间（新文章优先）
func (s *trendingServiceImpl) GetTrendingArticles(ctx context.Context, limit int) (*dto.TrendingListDTO, error) {
	if limit <= 0 {
		limit = TrendingDefaultLimit
	}
	if limit > TrendingMaxLimit {
		limit = TrendingMaxLimit
	}

	now := time.Now()
	rows, err := s.trendingRepo.GetEngagementRows(ctx, util.GetMidnight(now))
	if err != nil {
		return nil, err
	}

	RankTrendingRows(rows)

	if len(rows) > limit {
		rows = rows[:limit]
	}

	list := make([]*dto.TrendingArticleDTO, 0, len(rows))
	for i, row := range rows {
		engagement := row.LikesCount + row.CommentsCount
		item := &dto.TrendingArticleDTO{
			Rank:            i + 1,
			ArticleID:       row.ArticleID,
			Title:           row.Title,
			Slug:            row.Slug,
			Excerpt:         row.Excerpt,
			AuthorName:      row.AuthorName,
			AuthorUsername:  row.AuthorUsername,
			CategoryName:    row.CategoryName,
			LikesCount:      row.LikesCount,
			CommentsCount:   row.CommentsCount,
			TotalEngagement: engagement,
			ViewsToday:      row.ViewsToday,
			Badge:           BadgeFor(engagement),
		}
		if row.FeaturedImage != "" {
			item.FeaturedImage = minio.GetPublicURL(row.FeaturedImage)
		}
		if row.PublishedAt != nil {
			item.PublishedAt = row.PublishedAt.Format("2006-01-02 15:04:05")
		}
		list = append(list, item)
	}

	return &dto.TrendingListDTO{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		List:        list,
	}, nil
}

// RankTrendingRows 热度排序：互动量降序 -> 当日浏览降序 -> 创建时间降序
func RankTrendingRows(rows []*repository.TrendingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ei := rows[i].LikesCount + rows[i].CommentsCount
		ej := rows[j].LikesCount + rows[j].CommentsCount
		if ei != ej {
			return ei > ej
		}
		if rows[i].ViewsToday != rows[j].ViewsToday {
			return rows[i].ViewsToday > rows[j].ViewsToday
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

// BadgeFor 根据总互动量返回徽章
func BadgeFor(engagement int64) string {
	switch {
	case engagement >= BadgeViralThreshold:
		return BadgeViral
	case engagement >= BadgeTrendingThreshold:
		return BadgeTrending
	case engagement >= BadgePopularThreshold:
		return BadgePopular
	default:
		return BadgeNew
	}
}
