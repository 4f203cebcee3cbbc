package repository

import (
	"Inkwell/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
)

// TrendingRow 热度榜候选行，计数全部取数据库实时值
type TrendingRow struct {
	ArticleID      uint64
	Title          string
	Slug           string
	Excerpt        string
	FeaturedImage  string
	AuthorID       uint64
	AuthorName     string
	AuthorUsername string
	CategoryName   string
	LikesCount     int64
	CommentsCount  int64
	ViewsToday     int64
	PublishedAt    *time.Time
	CreatedAt      time.Time
}

type TrendingRepo interface {
	GetEngagementRows(ctx context.Context, viewsSince time.Time) ([]*TrendingRow, error)
}

type TrendingRepoImpl struct {
	db *gorm.DB
}

func NewTrendingRepo(db *gorm.DB) TrendingRepo {
	return &TrendingRepoImpl{db: db}
}

// GetEngagementRows 返回全部已发布且未隐藏的文章及其互动计数
// 排序交给上层，这里只负责取数
func (s *TrendingRepoImpl) GetEngagementRows(ctx context.Context, viewsSince time.Time) ([]*TrendingRow, error) {
	rows := make([]*TrendingRow, 0)
	err := s.db.WithContext(ctx).Raw(`
		SELECT a.id             AS article_id,
		       a.title          AS title,
		       a.slug           AS slug,
		       a.excerpt        AS excerpt,
		       a.featured_image AS featured_image,
		       a.author_id      AS author_id,
		       p.display_name   AS author_name,
		       u.username       AS author_username,
		       c.name           AS category_name,
		       a.published_at   AS published_at,
		       a.created_at     AS created_at,
		       (SELECT COUNT(*) FROM likes l
		         WHERE l.article_id = a.id)                          AS likes_count,
		       (SELECT COUNT(*) FROM comments cm
		         WHERE cm.article_id = a.id
		           AND cm.is_approved = 1 AND cm.is_deleted = 0)     AS comments_count,
		       (SELECT COUNT(*) FROM article_views v
		         WHERE v.article_id = a.id AND v.viewed_at >= ?)     AS views_today
		  FROM articles a
		  LEFT JOIN users u ON u.id = a.author_id
		  LEFT JOIN user_profiles p ON p.user_id = a.author_id
		  LEFT JOIN categories c ON c.id = a.category_id
		 WHERE a.status = ? AND a.is_hidden = 0`,
		viewsSince, consts.ArticleStatusApproved,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
