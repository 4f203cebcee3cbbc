package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	esrepo "Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/pkg/webhook"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"
)

// slugMaxAttempts slug 去重时追加序号的尝试上限
const slugMaxAttempts = 20

type ArticleService interface {
	CreateArticle(ctx context.Context, authorID uint64, req *dto.ArticleCreateDTO) (*dto.ArticleDTO, error)
	UpdateArticle(ctx context.Context, userID, articleID uint64, req *dto.ArticleUpdateDTO) error
	SubmitArticle(ctx context.Context, userID, articleID uint64) error
	ApproveArticle(ctx context.Context, reviewerID, articleID uint64) error
	RejectArticle(ctx context.Context, reviewerID, articleID uint64, reason string) error
	SetArticleHidden(ctx context.Context, userID uint64, isAdmin bool, articleID uint64, hidden bool) error
	DeleteArticle(ctx context.Context, userID uint64, isAdmin bool, articleID uint64) error

	GetArticleBySlug(ctx context.Context, viewerID uint64, isAdmin bool, slug string) (*dto.ArticleDTO, error)
	ListPublished(ctx context.Context, query *dto.ArticleListQueryDTO) (*dto.ArticleListDTO, error)
	ListFeatured(ctx context.Context, page, pageSize int) (*dto.ArticleListDTO, error)
	ListMine(ctx context.Context, authorID uint64, status *int8, page, pageSize int) (*dto.ArticleListDTO, error)
	ListPending(ctx context.Context, page, pageSize int) (*dto.ArticleListDTO, error)
	SearchArticles(ctx context.Context, keyword string, page, pageSize int) ([]*dto.ArticleSearchDTO, error)
	SearchArticlesByTag(ctx context.Context, tag string, page, pageSize int) ([]*dto.ArticleSearchDTO, error)

	UpdateArticleCounts(ctx context.Context, id uint64, likes, comments, views int64) error
}

type ArticleServiceImpl struct {
	articleRepo   repository.ArticleRepo
	categoryRepo  repository.CategoryRepo
	articleESRepo esrepo.ArticleRepo
	notifyRepo    mongo.NotificationRepo
	notifier      webhook.PublishNotifier
}

func NewArticleService(
	articleRepo repository.ArticleRepo,
	categoryRepo repository.CategoryRepo,
	articleESRepo esrepo.ArticleRepo,
	notifyRepo mongo.NotificationRepo,
	notifier webhook.PublishNotifier,
) ArticleService {
	return &ArticleServiceImpl{
		articleRepo:   articleRepo,
		categoryRepo:  categoryRepo,
		articleESRepo: articleESRepo,
		notifyRepo:    notifyRepo,
		notifier:      notifier,
	}
}

func (s *ArticleServiceImpl) CreateArticle(ctx context.Context, authorID uint64, req *dto.ArticleCreateDTO) (*dto.ArticleDTO, error) {
	category, err := s.categoryRepo.GetCategoryById(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug, err := s.uniquifySlug(ctx, util.Slugify(req.Title))
	if err != nil {
		return nil, err
	}

	excerpt := ""
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	} else {
		excerpt = util.MakeExcerpt(req.Content, 200)
	}

	article := &model.Article{
		AuthorID:   authorID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Slug:       slug,
		Content:    req.Content,
		Excerpt:    excerpt,
		Tags:       req.Tags,
		Status:     consts.ArticleStatusDraft,
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = *req.FeaturedImage
	}

	if err = s.articleRepo.CreateArticle(ctx, article); err != nil {
		if isDuplicateError(err) {
			return nil, ErrSlugExist
		}
		return nil, err
	}

	created, err := s.articleRepo.GetArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return s.toArticleDTO(created, true), nil
}

// UpdateArticle 只有作者本人可编辑，且仅限草稿或被驳回的文章
// 编辑被驳回的文章会将其退回草稿
func (s *ArticleServiceImpl) UpdateArticle(ctx context.Context, userID, articleID uint64, req *dto.ArticleUpdateDTO) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != userID {
		return UnauthorizedError
	}
	if article.Status != consts.ArticleStatusDraft && article.Status != consts.ArticleStatusRejected {
		return ErrStatusTransition
	}

	fields := map[string]interface{}{
		"status": consts.ArticleStatusDraft,
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
		if req.Excerpt == nil && article.Excerpt == util.MakeExcerpt(article.Content, 200) {
			fields["excerpt"] = util.MakeExcerpt(*req.Content, 200)
		}
	}
	if req.Excerpt != nil {
		fields["excerpt"] = *req.Excerpt
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetCategoryById(ctx, *req.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.Tags != nil {
		article.Tags = req.Tags
		if err := s.articleRepo.UpdateArticle(ctx, &model.Article{ID: articleID, Tags: req.Tags}); err != nil {
			return err
		}
	}
	if req.FeaturedImage != nil {
		fields["featured_image"] = *req.FeaturedImage
	}

	return s.articleRepo.UpdateArticleFields(ctx, articleID, fields)
}

// SubmitArticle 草稿 -> 待审核
func (s *ArticleServiceImpl) SubmitArticle(ctx context.Context, userID, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != userID {
		return UnauthorizedError
	}
	if article.Status != consts.ArticleStatusDraft {
		return ErrStatusTransition
	}

	now := time.Now()
	return s.articleRepo.UpdateArticleFields(ctx, articleID, map[string]interface{}{
		"status":       consts.ArticleStatusPending,
		"submitted_at": now,
	})
}

// ApproveArticle 待审核 -> 已发布，发布时间以审核通过时刻为准
func (s *ArticleServiceImpl) ApproveArticle(ctx context.Context, reviewerID, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.Status != consts.ArticleStatusPending {
		return ErrStatusTransition
	}

	now := time.Now()
	err = s.articleRepo.UpdateArticleFields(ctx, articleID, map[string]interface{}{
		"status":       consts.ArticleStatusApproved,
		"published_at": now,
	})
	if err != nil {
		return err
	}

	article.Status = consts.ArticleStatusApproved
	article.PublishedAt = &now

	s.indexArticle(ctx, article)

	s.notifier.NotifyPublished(ctx, &webhook.PublishEvent{
		ArticleID:   article.ID,
		Slug:        article.Slug,
		Title:       article.Title,
		AuthorID:    article.AuthorID,
		PublishedAt: &now,
	})

	s.sendModerationNotification(ctx, reviewerID, article, mongo.NotifyTypeArticleApproved, "你的文章已通过审核", nil)

	return nil
}

// RejectArticle 待审核 -> 已驳回
func (s *ArticleServiceImpl) RejectArticle(ctx context.Context, reviewerID, articleID uint64, reason string) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.Status != consts.ArticleStatusPending {
		return ErrStatusTransition
	}

	err = s.articleRepo.UpdateArticleFields(ctx, articleID, map[string]interface{}{
		"status": consts.ArticleStatusRejected,
	})
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if reason != "" {
		payload["reason"] = reason
	}
	s.sendModerationNotification(ctx, reviewerID, article, mongo.NotifyTypeArticleRejected, "你的文章未通过审核", payload)

	return nil
}

// SetArticleHidden 仅已发布的文章可以隐藏/恢复，作者或管理员可操作
func (s *ArticleServiceImpl) SetArticleHidden(ctx context.Context, userID uint64, isAdmin bool, articleID uint64, hidden bool) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != userID && !isAdmin {
		return UnauthorizedError
	}
	if article.Status != consts.ArticleStatusApproved {
		return ErrStatusTransition
	}

	err = s.articleRepo.UpdateArticleFields(ctx, articleID, map[string]interface{}{
		"is_hidden": hidden,
	})
	if err != nil {
		return err
	}

	if hidden {
		if err := s.articleESRepo.DeleteArticle(ctx, articleID); err != nil {
			log.ErrorContext(ctx, "failed to remove hidden article from index", "articleID", articleID, "err", err)
		}
	} else {
		article.IsHidden = false
		s.indexArticle(ctx, article)
	}
	return nil
}

func (s *ArticleServiceImpl) DeleteArticle(ctx context.Context, userID uint64, isAdmin bool, articleID uint64) error {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != userID && !isAdmin {
		return UnauthorizedError
	}

	if err = s.articleRepo.DeleteArticle(ctx, articleID); err != nil {
		return err
	}

	idStr := strconv.FormatUint(articleID, 10)
	_ = redis.DeleteKey(ctx, consts.ArticleLikeKey+idStr)
	_ = redis.DeleteKey(ctx, consts.ArticleCommentKey+idStr)
	_ = redis.DeleteKey(ctx, consts.ArticleViewKey+idStr)

	if err := s.articleESRepo.DeleteArticle(ctx, articleID); err != nil {
		log.ErrorContext(ctx, "failed to remove deleted article from index", "articleID", articleID, "err", err)
	}

	if article.FeaturedImage != "" {
		go func() {
			_ = minio.DeleteFile(context.Background(), article.FeaturedImage)
		}()
	}
	return nil
}

// GetArticleBySlug 访客只能看到已发布且未隐藏的文章，作者与管理员不受限
func (s *ArticleServiceImpl) GetArticleBySlug(ctx context.Context, viewerID uint64, isAdmin bool, slug string) (*dto.ArticleDTO, error) {
	article, err := s.articleRepo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	visible := article.Status == consts.ArticleStatusApproved && !article.IsHidden
	if !visible && article.AuthorID != viewerID && !isAdmin {
		return nil, ErrArticleNotVisible
	}

	return s.toArticleDTO(article, true), nil
}

// ListPublished 公开列表，支持按分类 slug、标签、标题关键字过滤
func (s *ArticleServiceImpl) ListPublished(ctx context.Context, query *dto.ArticleListQueryDTO) (*dto.ArticleListDTO, error) {
	status := consts.ArticleStatusApproved
	filter := repository.ArticleFilter{
		Status:  &status,
		Tag:     query.Tag,
		Keyword: query.Keyword,
		Limit:   query.PageSize,
		Offset:  (query.Page - 1) * query.PageSize,
	}

	if query.Category != "" {
		category, err := s.categoryRepo.GetCategoryBySlug(ctx, query.Category)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		filter.CategoryID = category.ID
	}

	articles, total, err := s.articleRepo.ListArticles(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toArticleListDTO(articles, total), nil
}

func (s *ArticleServiceImpl) ListFeatured(ctx context.Context, page, pageSize int) (*dto.ArticleListDTO, error) {
	status := consts.ArticleStatusApproved
	articles, total, err := s.articleRepo.ListArticles(ctx, repository.ArticleFilter{
		Status:       &status,
		FeaturedOnly: true,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.toArticleListDTO(articles, total), nil
}

func (s *ArticleServiceImpl) ListMine(ctx context.Context, authorID uint64, status *int8, page, pageSize int) (*dto.ArticleListDTO, error) {
	articles, total, err := s.articleRepo.ListArticles(ctx, repository.ArticleFilter{
		Status:        status,
		AuthorID:      authorID,
		IncludeHidden: true,
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.toArticleListDTO(articles, total), nil
}

func (s *ArticleServiceImpl) ListPending(ctx context.Context, page, pageSize int) (*dto.ArticleListDTO, error) {
	status := consts.ArticleStatusPending
	articles, total, err := s.articleRepo.ListArticles(ctx, repository.ArticleFilter{
		Status:        &status,
		IncludeHidden: true,
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.toArticleListDTO(articles, total), nil
}

func (s *ArticleServiceImpl) SearchArticles(ctx context.Context, keyword string, page, pageSize int) ([]*dto.ArticleSearchDTO, error) {
	docs, err := s.articleESRepo.SearchArticles(ctx, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return toSearchDTOs(docs), nil
}

// SearchArticlesByTag 按标签精确检索，结果按发布时间倒序
func (s *ArticleServiceImpl) SearchArticlesByTag(ctx context.Context, tag string, page, pageSize int) ([]*dto.ArticleSearchDTO, error) {
	docs, err := s.articleESRepo.SearchByTag(ctx, tag, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return toSearchDTOs(docs), nil
}

func toSearchDTOs(docs []*esrepo.ArticleES) []*dto.ArticleSearchDTO {
	res := make([]*dto.ArticleSearchDTO, 0, len(docs))
	for _, doc := range docs {
		item := &dto.ArticleSearchDTO{
			ID:           doc.ID,
			Title:        doc.Title,
			Slug:         doc.Slug,
			Excerpt:      doc.Excerpt,
			Tags:         doc.Tags,
			AuthorName:   doc.AuthorDisplayName,
			CategoryName: doc.CategoryName,
		}
		if doc.PublishedAt != nil {
			item.PublishedAt = doc.PublishedAt.Format("2006-01-02 15:04:05")
		}
		res = append(res, item)
	}
	return res
}

func (s *ArticleServiceImpl) UpdateArticleCounts(ctx context.Context, id uint64, likes, comments, views int64) error {
	return s.articleRepo.UpdateArticleCounts(ctx, id, likes, comments, views)
}

// uniquifySlug slug 冲突时追加 -2 / -3 ... 后缀
func (s *ArticleServiceImpl) uniquifySlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for i := 2; i <= slugMaxAttempts; i++ {
		exists, err := s.articleRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	// 超过尝试上限，挂时间戳兜底
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}

func (s *ArticleServiceImpl) indexArticle(ctx context.Context, article *model.Article) {
	doc := &esrepo.ArticleES{
		ID:                article.ID,
		AuthorID:          article.AuthorID,
		Status:            article.Status,
		Title:             article.Title,
		Slug:              article.Slug,
		Excerpt:           article.Excerpt,
		Content:           article.Content,
		Tags:              article.Tags,
		CategoryName:      article.Category.Name,
		AuthorUsername:    article.Author.Username,
		AuthorDisplayName: article.Author.Profile.DisplayName,
		LikesCount:        article.LikesCount,
		CommentsCount:     article.CommentsCount,
		PublishedAt:       article.PublishedAt,
		CreatedAt:         article.CreatedAt,
	}
	if err := s.articleESRepo.IndexArticle(ctx, doc, time.Now().UnixNano()); err != nil {
		log.ErrorContext(ctx, "failed to index article", "articleID", article.ID, "err", err)
	}
}

func (s *ArticleServiceImpl) sendModerationNotification(ctx context.Context, senderID uint64, article *model.Article, notifyType int8, content string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["article_title"] = article.Title
	payload["article_slug"] = article.Slug

	notification := &mongo.NotificationModel{
		ReceiverID: article.AuthorID,
		SenderID:   senderID,
		Type:       notifyType,
		TargetID:   article.ID,
		Content:    content,
		Payload:    payload,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}
	if err := s.notifyRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create moderation notification", "articleID", article.ID, "err", err)
	}
}

func (s *ArticleServiceImpl) toArticleDTO(article *model.Article, withContent bool) *dto.ArticleDTO {
	item := &dto.ArticleDTO{
		ID:            article.ID,
		Title:         article.Title,
		Slug:          article.Slug,
		Excerpt:       article.Excerpt,
		Tags:          article.Tags,
		Status:        consts.ArticleStatusName(article.Status),
		IsFeatured:    article.IsFeatured,
		IsHidden:      article.IsHidden,
		AuthorID:      article.AuthorID,
		AuthorName:    article.Author.Profile.DisplayName,
		CategoryID:    article.CategoryID,
		CategoryName:  article.Category.Name,
		LikesCount:    int64(article.LikesCount),
		CommentsCount: int64(article.CommentsCount),
		ViewsCount:    int64(article.ViewsCount),
		CreatedAt:     article.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     article.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if withContent {
		item.Content = article.Content
	}
	if article.Author.Profile.AvatarURL != "" {
		item.AvatarURL = minio.GetPublicURL(article.Author.Profile.AvatarURL)
	}
	if article.FeaturedImage != "" {
		item.FeaturedImage = minio.GetPublicURL(article.FeaturedImage)
	}
	if article.SubmittedAt != nil {
		item.SubmittedAt = article.SubmittedAt.Format("2006-01-02 15:04:05")
	}
	if article.PublishedAt != nil {
		item.PublishedAt = article.PublishedAt.Format("2006-01-02 15:04:05")
	}
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	return item
}

func (s *ArticleServiceImpl) toArticleListDTO(articles []*model.Article, total int64) *dto.ArticleListDTO {
	list := make([]*dto.ArticleDTO, 0, len(articles))
	for _, article := range articles {
		list = append(list, s.toArticleDTO(article, false))
	}
	return &dto.ArticleListDTO{List: list, Total: total}
}
