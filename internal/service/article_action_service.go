package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

const cacheExpiration = 7 * 24 * time.Hour

type ArticleActionService interface {
	LikeArticle(ctx context.Context, userID, articleID uint64) error
	CancelLikeArticle(ctx context.Context, userID, articleID uint64) error
	GetArticleLikeCount(ctx context.Context, articleID uint64) (int64, error)
	IsLiked(ctx context.Context, userID, articleID uint64) (bool, error)

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) error
	ApproveComment(ctx context.Context, commentID uint64) error
	DeleteComment(ctx context.Context, userID uint64, isAdmin bool, commentID uint64) error
	GetArticleCommentCount(ctx context.Context, articleID uint64) (int64, error)
	GetCommentsByArticleID(ctx context.Context, articleID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
	GetPendingComments(ctx context.Context, page, pageSize int) ([]*dto.CommentDTO, error)

	TrackArticleView(ctx context.Context, userID, articleID uint64) error
	GetArticleViewCount(ctx context.Context, articleID uint64) (int64, error)
}

type articleActionServiceImpl struct {
	actionRepo  repository.ArticleActionRepo
	articleRepo repository.ArticleRepo
	userRepo    repository.UserRepo
}

func NewArticleActionService(
	actionRepo repository.ArticleActionRepo,
	articleRepo repository.ArticleRepo,
	userRepo repository.UserRepo,
) ArticleActionService {
	return &articleActionServiceImpl{
		actionRepo:  actionRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
	}
}

func (s *articleActionServiceImpl) LikeArticle(ctx context.Context, userID, articleID uint64) error {
	return s.performAction(s.getVisibleArticleCheck(ctx, articleID), func() error {
		return s.actionRepo.CreateLike(ctx, &model.Like{UserID: userID, ArticleID: articleID, CreatedAt: time.Now()})
	})
}

// CancelLikeArticle 取消一个不存在的点赞按幂等处理，直接返回成功
func (s *articleActionServiceImpl) CancelLikeArticle(ctx context.Context, userID, articleID uint64) error {
	return s.revokeAction(s.getVisibleArticleCheck(ctx, articleID), func() error {
		_, err := s.actionRepo.DeleteLike(ctx, userID, articleID)
		return err
	})
}

func (s *articleActionServiceImpl) GetArticleLikeCount(ctx context.Context, articleID uint64) (int64, error) {
	key := consts.ArticleLikeKey + strconv.FormatUint(articleID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.actionRepo.GetLikeCountByArticleID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

func (s *articleActionServiceImpl) IsLiked(ctx context.Context, userID, articleID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.actionRepo.CheckLikeExists(ctx, userID, articleID)
}

// CreateComment 新评论落库为待审核，回复只允许指向本文的顶级已过审评论
func (s *articleActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) error {
	if err := s.getVisibleArticleCheck(ctx, req.ArticleID)(); err != nil {
		return err
	}

	if req.ParentID > 0 {
		parent, err := s.actionRepo.GetCommentByID(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrCommentNotFound
		}
		if parent.ArticleID != req.ArticleID || parent.ParentID != 0 {
			return ErrCommentParentInvalid
		}
		if !parent.IsApproved {
			return ErrCommentNotApproved
		}
	}

	comment := &model.Comment{
		ArticleID:  req.ArticleID,
		UserID:     userID,
		ParentID:   req.ParentID,
		Content:    req.Content,
		IsApproved: false,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	return s.actionRepo.CreateComment(ctx, comment)
}

func (s *articleActionServiceImpl) ApproveComment(ctx context.Context, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.IsApproved {
		return ErrActionDuplicate
	}
	return s.actionRepo.UpdateCommentApproved(ctx, commentID, true)
}

func (s *articleActionServiceImpl) DeleteComment(ctx context.Context, userID uint64, isAdmin bool, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID && !isAdmin {
		return UnauthorizedError
	}
	return s.actionRepo.DeleteComment(ctx, commentID)
}

func (s *articleActionServiceImpl) GetArticleCommentCount(ctx context.Context, articleID uint64) (int64, error) {
	key := consts.ArticleCommentKey + strconv.FormatUint(articleID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.actionRepo.GetCommentCountByArticleID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

func (s *articleActionServiceImpl) GetCommentsByArticleID(ctx context.Context, articleID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	rootComments, err := s.actionRepo.GetRootCommentsByArticleID(ctx, articleID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CommentDTO, 0, len(rootComments))
	for _, rc := range rootComments {
		rootDTO := s.convertToCommentDTO(ctx, rc)

		replies, err := s.actionRepo.GetRepliesByParentID(ctx, rc.ID, 100, 0)
		if err != nil {
			return nil, err
		}
		rootDTO.ReplyCount = int64(len(replies))
		if len(replies) > 0 {
			rootDTO.Replies = make([]*dto.CommentDTO, 0, len(replies))
			for _, reply := range replies {
				rootDTO.Replies = append(rootDTO.Replies, s.convertToCommentDTO(ctx, reply))
			}
		}
		res = append(res, rootDTO)
	}
	return res, nil
}

func (s *articleActionServiceImpl) GetPendingComments(ctx context.Context, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetPendingComments(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		res = append(res, s.convertToCommentDTO(ctx, comment))
	}
	return res, nil
}

// TrackArticleView 公开阅读记一条阅读流水，作者读自己的文章不计
func (s *articleActionServiceImpl) TrackArticleView(ctx context.Context, userID, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.Status != consts.ArticleStatusApproved || article.IsHidden {
		return nil
	}
	if userID != 0 && article.AuthorID == userID {
		return nil
	}
	return s.actionRepo.CreateView(ctx, &model.ArticleView{
		ArticleID: articleID,
		UserID:    userID,
		ViewedAt:  time.Now(),
	})
}

func (s *articleActionServiceImpl) GetArticleViewCount(ctx context.Context, articleID uint64) (int64, error) {
	key := consts.ArticleViewKey + strconv.FormatUint(articleID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.actionRepo.GetViewCountByArticleID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

func (s *articleActionServiceImpl) performAction(checkFunc func() error, repoFunc func() error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	if err := repoFunc(); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}
	return nil
}

func (s *articleActionServiceImpl) revokeAction(checkFunc func() error, repoFunc func() error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	return repoFunc()
}

// getVisibleArticleCheck 互动目标必须是已发布且未隐藏的文章
func (s *articleActionServiceImpl) getVisibleArticleCheck(ctx context.Context, articleID uint64) func() error {
	return func() error {
		articles, err := s.articleRepo.GetArticleByIds(ctx, []uint64{articleID})
		if err != nil || len(articles) == 0 {
			return ErrArticleNotFound
		}
		article := articles[0]
		if article.Status != consts.ArticleStatusApproved || article.IsHidden {
			return ErrArticleNotVisible
		}
		return nil
	}
}

func (s *articleActionServiceImpl) convertToCommentDTO(ctx context.Context, comment *model.Comment) *dto.CommentDTO {
	item := &dto.CommentDTO{
		ID:         comment.ID,
		ArticleID:  comment.ArticleID,
		UserID:     comment.UserID,
		Content:    comment.Content,
		ParentID:   comment.ParentID,
		IsApproved: comment.IsApproved,
		CreatedAt:  comment.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	profile, err := s.userRepo.GetProfileById(ctx, comment.UserID)
	if err == nil && profile != nil {
		item.DisplayName = profile.DisplayName
		item.AvatarURL = minio.GetPublicURL(profile.AvatarURL)
	}
	return item
}
