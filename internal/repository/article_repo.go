package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ArticleFilter 文章列表查询条件
type ArticleFilter struct {
	Status        *int8
	AuthorID      uint64
	CategoryID    uint64
	Tag           string
	Keyword       string
	FeaturedOnly  bool
	IncludeHidden bool
	Limit         int
	Offset        int
}

type ArticleRepo interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id uint64) (*model.Article, error)
	GetArticleByIds(ctx context.Context, ids []uint64) ([]*model.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	UpdateArticleFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	UpdateArticleCounts(ctx context.Context, id uint64, likes, comments, views int64) error
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*model.Article, int64, error)
	DeleteArticle(ctx context.Context, id uint64) error
}

type ArticleRepoImpl struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepo {
	return &ArticleRepoImpl{db: db}
}

func (s *ArticleRepoImpl) CreateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

func (s *ArticleRepoImpl) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Preload("Author.Profile").
		Preload("Category").
		First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (s *ArticleRepoImpl) GetArticleByIds(ctx context.Context, ids []uint64) ([]*model.Article, error) {
	articles := make([]*model.Article, 0)
	err := s.db.WithContext(ctx).
		Preload("Author.Profile").
		Preload("Category").
		Where("id IN ?", ids).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleRepoImpl) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Preload("Author.Profile").
		Preload("Category").
		Where("slug = ?", slug).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (s *ArticleRepoImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Article{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (s *ArticleRepoImpl) UpdateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", article.ID).
		Updates(article).Error
}

// UpdateArticleFields 按字段更新，用于状态迁移时一并写入时间戳
func (s *ArticleRepoImpl) UpdateArticleFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (s *ArticleRepoImpl) UpdateArticleCounts(ctx context.Context, id uint64, likes, comments, views int64) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":    likes,
			"comments_count": comments,
			"views_count":    views,
		}).Error
}

func (s *ArticleRepoImpl) ListArticles(ctx context.Context, filter ArticleFilter) ([]*model.Article, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Article{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Tag != "" {
		query = query.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", filter.Tag)
	}
	if filter.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if !filter.IncludeHidden {
		query = query.Where("is_hidden = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	articles := make([]*model.Article, 0)
	err := query.
		Preload("Author.Profile").
		Preload("Category").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// DeleteArticle 物理删除文章及其派生数据
func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleDailyMetric{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Article{}, id).Error
	})
}
