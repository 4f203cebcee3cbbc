package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ArticleActionRepo interface {
	CreateLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, userID, articleID uint64) (int64, error)
	CheckLikeExists(ctx context.Context, userID, articleID uint64) (bool, error)
	GetLikedArticleIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, commentID uint64) error
	UpdateCommentApproved(ctx context.Context, commentID uint64, approved bool) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	GetRootCommentsByArticleID(ctx context.Context, articleID uint64, limit, offset int) ([]*model.Comment, error)
	GetRepliesByParentID(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Comment, error)
	GetPendingComments(ctx context.Context, limit, offset int) ([]*model.Comment, error)

	CreateView(ctx context.Context, view *model.ArticleView) error

	GetLikeCountByArticleID(ctx context.Context, articleID uint64) (int64, error)
	GetCommentCountByArticleID(ctx context.Context, articleID uint64) (int64, error)
	GetViewCountByArticleID(ctx context.Context, articleID uint64) (int64, error)
	GetViewCountSince(ctx context.Context, articleID uint64, since time.Time) (int64, error)
}

type ArticleActionRepoImpl struct {
	db *gorm.DB
}

func NewArticleActionRepo(db *gorm.DB) ArticleActionRepo {
	return &ArticleActionRepoImpl{db}
}

func (s *ArticleActionRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *ArticleActionRepoImpl) DeleteLike(ctx context.Context, userID, articleID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

func (s *ArticleActionRepoImpl) CheckLikeExists(ctx context.Context, userID, articleID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func (s *ArticleActionRepoImpl) GetLikedArticleIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var articleIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("article_id", &articleIDs).Error
	return articleIDs, err
}

func (s *ArticleActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

// DeleteComment 软删除评论及其回复
func (s *ArticleActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("(id = ? OR parent_id = ?) AND is_deleted = ?", commentID, commentID, false).
		Update("is_deleted", true).Error
}

func (s *ArticleActionRepoImpl) UpdateCommentApproved(ctx context.Context, commentID uint64, approved bool) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", commentID).
		Update("is_approved", approved).Error
}

func (s *ArticleActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetRootCommentsByArticleID 分页获取文章的顶级评论（仅已过审）
func (s *ArticleActionRepoImpl) GetRootCommentsByArticleID(ctx context.Context, articleID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("article_id = ? AND parent_id = ? AND is_approved = ? AND is_deleted = ?", articleID, 0, true, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// GetRepliesByParentID 获取某个顶级评论下的回复
func (s *ArticleActionRepoImpl) GetRepliesByParentID(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND is_approved = ? AND is_deleted = ?", parentID, true, false).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// GetPendingComments 审核队列
func (s *ArticleActionRepoImpl) GetPendingComments(ctx context.Context, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("is_approved = ? AND is_deleted = ?", false, false).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *ArticleActionRepoImpl) CreateView(ctx context.Context, view *model.ArticleView) error {
	return s.db.WithContext(ctx).Create(view).Error
}

func (s *ArticleActionRepoImpl) GetLikeCountByArticleID(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

func (s *ArticleActionRepoImpl) GetCommentCountByArticleID(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ? AND is_approved = ? AND is_deleted = ?", articleID, true, false).
		Count(&count).Error
	return count, err
}

func (s *ArticleActionRepoImpl) GetViewCountByArticleID(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ArticleView{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

// GetViewCountSince 统计某一时刻之后的阅读数，用于"今日浏览"
func (s *ArticleActionRepoImpl) GetViewCountSince(ctx context.Context, articleID uint64, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ArticleView{}).
		Where("article_id = ? AND viewed_at >= ?", articleID, since).
		Count(&count).Error
	return count, err
}
