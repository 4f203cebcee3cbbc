package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	esrepo "Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/pkg/webhook"
	"Inkwell/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArticleRepo struct {
	articles map[uint64]*model.Article
	nextID   uint64
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uint64]*model.Article), nextID: 1}
}

func (f *fakeArticleRepo) CreateArticle(ctx context.Context, article *model.Article) error {
	for _, a := range f.articles {
		if a.Slug == article.Slug {
			return assert.AnError
		}
	}
	article.ID = f.nextID
	f.nextID++
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	f.articles[article.ID] = article
	return nil
}

func (f *fakeArticleRepo) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	return f.articles[id], nil
}

func (f *fakeArticleRepo) GetArticleByIds(ctx context.Context, ids []uint64) ([]*model.Article, error) {
	res := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := f.articles[id]; ok {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeArticleRepo) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	for _, a := range f.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, a := range f.articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeArticleRepo) UpdateArticle(ctx context.Context, article *model.Article) error {
	if stored, ok := f.articles[article.ID]; ok && article.Tags != nil {
		stored.Tags = article.Tags
	}
	return nil
}

func (f *fakeArticleRepo) UpdateArticleFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	a, ok := f.articles[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			a.Status = v.(int8)
		case "title":
			a.Title = v.(string)
		case "content":
			a.Content = v.(string)
		case "excerpt":
			a.Excerpt = v.(string)
		case "category_id":
			a.CategoryID = v.(uint64)
		case "featured_image":
			a.FeaturedImage = v.(string)
		case "is_hidden":
			a.IsHidden = v.(bool)
		case "submitted_at":
			t := v.(time.Time)
			a.SubmittedAt = &t
		case "published_at":
			t := v.(time.Time)
			a.PublishedAt = &t
		}
	}
	return nil
}

func (f *fakeArticleRepo) UpdateArticleCounts(ctx context.Context, id uint64, likes, comments, views int64) error {
	if a, ok := f.articles[id]; ok {
		a.LikesCount = int(likes)
		a.CommentsCount = int(comments)
		a.ViewsCount = int(views)
	}
	return nil
}

func (f *fakeArticleRepo) ListArticles(ctx context.Context, filter repository.ArticleFilter) ([]*model.Article, int64, error) {
	res := make([]*model.Article, 0)
	for _, a := range f.articles {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.AuthorID != 0 && a.AuthorID != filter.AuthorID {
			continue
		}
		if filter.CategoryID != 0 && a.CategoryID != filter.CategoryID {
			continue
		}
		if filter.FeaturedOnly && !a.IsFeatured {
			continue
		}
		if !filter.IncludeHidden && a.IsHidden {
			continue
		}
		res = append(res, a)
	}
	return res, int64(len(res)), nil
}

func (f *fakeArticleRepo) DeleteArticle(ctx context.Context, id uint64) error {
	delete(f.articles, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uint64]*model.Category
}

func (f *fakeCategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	return nil
}
func (f *fakeCategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	return nil
}
func (f *fakeCategoryRepo) DeleteCategory(ctx context.Context, id uint64) error { return nil }
func (f *fakeCategoryRepo) GetCategoryById(ctx context.Context, id uint64) (*model.Category, error) {
	return f.categories[id], nil
}
func (f *fakeCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCategoryRepo) GetCategories(ctx context.Context) ([]*model.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) CountArticlesByCategory(ctx context.Context, id uint64) (int64, error) {
	return 0, nil
}

type fakeESRepo struct {
	indexed       []uint64
	deleted       []uint64
	tagQueries    []string
	tagResults    []*esrepo.ArticleES
	authorUpdates map[uint64]string
}

func (f *fakeESRepo) SearchArticles(ctx context.Context, keyword string, from, size int) ([]*esrepo.ArticleES, error) {
	return nil, nil
}
func (f *fakeESRepo) SearchByTag(ctx context.Context, tag string, from, size int) ([]*esrepo.ArticleES, error) {
	f.tagQueries = append(f.tagQueries, tag)
	return f.tagResults, nil
}
func (f *fakeESRepo) IndexArticle(ctx context.Context, article *esrepo.ArticleES, version int64) error {
	f.indexed = append(f.indexed, article.ID)
	return nil
}
func (f *fakeESRepo) DeleteArticle(ctx context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeESRepo) UpdateAuthorDetail(ctx context.Context, authorID uint64, newDisplayName string) error {
	if f.authorUpdates == nil {
		f.authorUpdates = make(map[uint64]string)
	}
	f.authorUpdates[authorID] = newDisplayName
	return nil
}

type fakeNotifyRepo struct {
	created []*mongo.NotificationModel
}

func (f *fakeNotifyRepo) CreateNotification(ctx context.Context, msg *mongo.NotificationModel) error {
	f.created = append(f.created, msg)
	return nil
}
func (f *fakeNotifyRepo) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.NotificationModel, error) {
	return f.created, nil
}
func (f *fakeNotifyRepo) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	return nil
}
func (f *fakeNotifyRepo) MarkAllAsRead(ctx context.Context, userID uint64) error { return nil }
func (f *fakeNotifyRepo) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeNotifier struct {
	events []*webhook.PublishEvent
}

func (f *fakeNotifier) NotifyPublished(ctx context.Context, event *webhook.PublishEvent) {
	f.events = append(f.events, event)
}

type articleServiceFixture struct {
	svc         ArticleService
	articleRepo *fakeArticleRepo
	esRepo      *fakeESRepo
	notifyRepo  *fakeNotifyRepo
	notifier    *fakeNotifier
}

func newArticleServiceFixture() *articleServiceFixture {
	articleRepo := newFakeArticleRepo()
	categoryRepo := &fakeCategoryRepo{categories: map[uint64]*model.Category{
		1: {ID: 1, Name: "Engineering", Slug: "engineering"},
	}}
	esRepo := &fakeESRepo{}
	notifyRepo := &fakeNotifyRepo{}
	notifier := &fakeNotifier{}

	return &articleServiceFixture{
		svc:         NewArticleService(articleRepo, categoryRepo, esRepo, notifyRepo, notifier),
		articleRepo: articleRepo,
		esRepo:      esRepo,
		notifyRepo:  notifyRepo,
		notifier:    notifier,
	}
}

func TestCreateArticleDefaults(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title:      "Hello, World!",
		Content:    "First paragraph of the article.\nSecond paragraph.",
		CategoryID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, "First paragraph of the article.", created.Excerpt)
	assert.Equal(t, uint64(7), created.AuthorID)
	// 草稿不进索引
	assert.Empty(t, fx.esRepo.indexed)
}

func TestCreateArticleUnknownCategory(t *testing.T) {
	fx := newArticleServiceFixture()

	_, err := fx.svc.CreateArticle(context.Background(), 7, &dto.ArticleCreateDTO{
		Title:      "hi",
		Content:    "body",
		CategoryID: 99,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateArticleSlugConflict(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	first, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title: "Go Tips", Content: "a", CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "go-tips", first.Slug)

	second, err := fx.svc.CreateArticle(ctx, 8, &dto.ArticleCreateDTO{
		Title: "Go Tips", Content: "b", CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "go-tips-2", second.Slug)

	third, err := fx.svc.CreateArticle(ctx, 9, &dto.ArticleCreateDTO{
		Title: "Go Tips", Content: "c", CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "go-tips-3", third.Slug)
}

func TestModerationFlow(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title: "Pipeline", Content: "body", CategoryID: 1,
	})
	require.NoError(t, err)
	articleID := created.ID

	// 审核未提交的草稿被拒绝
	err = fx.svc.ApproveArticle(ctx, 100, articleID)
	assert.ErrorIs(t, err, ErrStatusTransition)

	// 非作者不能提交
	err = fx.svc.SubmitArticle(ctx, 8, articleID)
	assert.ErrorIs(t, err, UnauthorizedError)

	require.NoError(t, fx.svc.SubmitArticle(ctx, 7, articleID))
	stored := fx.articleRepo.articles[articleID]
	assert.Equal(t, consts.ArticleStatusPending, stored.Status)
	require.NotNil(t, stored.SubmittedAt)

	// 待审核状态不可再提交
	err = fx.svc.SubmitArticle(ctx, 7, articleID)
	assert.ErrorIs(t, err, ErrStatusTransition)

	require.NoError(t, fx.svc.ApproveArticle(ctx, 100, articleID))
	stored = fx.articleRepo.articles[articleID]
	assert.Equal(t, consts.ArticleStatusApproved, stored.Status)
	require.NotNil(t, stored.PublishedAt)

	// 过审后进索引、发 webhook、发站内通知
	assert.Contains(t, fx.esRepo.indexed, articleID)
	require.Len(t, fx.notifier.events, 1)
	assert.Equal(t, articleID, fx.notifier.events[0].ArticleID)
	require.Len(t, fx.notifyRepo.created, 1)
	assert.Equal(t, mongo.NotifyTypeArticleApproved, fx.notifyRepo.created[0].Type)
	assert.Equal(t, uint64(7), fx.notifyRepo.created[0].ReceiverID)
}

func TestRejectArticle(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title: "Rejected", Content: "body", CategoryID: 1,
	})
	require.NoError(t, err)
	require.NoError(t, fx.svc.SubmitArticle(ctx, 7, created.ID))

	require.NoError(t, fx.svc.RejectArticle(ctx, 100, created.ID, "内容不完整"))

	stored := fx.articleRepo.articles[created.ID]
	assert.Equal(t, consts.ArticleStatusRejected, stored.Status)
	assert.Nil(t, stored.PublishedAt)

	require.Len(t, fx.notifyRepo.created, 1)
	assert.Equal(t, mongo.NotifyTypeArticleRejected, fx.notifyRepo.created[0].Type)
	assert.Equal(t, "内容不完整", fx.notifyRepo.created[0].Payload["reason"])

	// 编辑被驳回的文章会退回草稿
	newTitle := "Rejected v2"
	require.NoError(t, fx.svc.UpdateArticle(ctx, 7, created.ID, &dto.ArticleUpdateDTO{Title: &newTitle}))
	stored = fx.articleRepo.articles[created.ID]
	assert.Equal(t, consts.ArticleStatusDraft, stored.Status)
	assert.Equal(t, "Rejected v2", stored.Title)
}

func TestUpdateArticleOnlyDraftOrRejected(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title: "Locked", Content: "body", CategoryID: 1,
	})
	require.NoError(t, err)
	require.NoError(t, fx.svc.SubmitArticle(ctx, 7, created.ID))

	newTitle := "nope"
	err = fx.svc.UpdateArticle(ctx, 7, created.ID, &dto.ArticleUpdateDTO{Title: &newTitle})
	assert.ErrorIs(t, err, ErrStatusTransition)

	require.NoError(t, fx.svc.ApproveArticle(ctx, 100, created.ID))
	err = fx.svc.UpdateArticle(ctx, 7, created.ID, &dto.ArticleUpdateDTO{Title: &newTitle})
	assert.ErrorIs(t, err, ErrStatusTransition)
}

func TestGetArticleBySlugVisibility(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
		Title: "Secret", Content: "body", CategoryID: 1,
	})
	require.NoError(t, err)

	// 草稿只有作者和管理员可见
	_, err = fx.svc.GetArticleBySlug(ctx, 0, false, created.Slug)
	assert.ErrorIs(t, err, ErrArticleNotVisible)

	got, err := fx.svc.GetArticleBySlug(ctx, 7, false, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = fx.svc.GetArticleBySlug(ctx, 0, true, created.Slug)
	require.NoError(t, err)

	require.NoError(t, fx.svc.SubmitArticle(ctx, 7, created.ID))
	require.NoError(t, fx.svc.ApproveArticle(ctx, 100, created.ID))

	// 发布后对访客可见
	_, err = fx.svc.GetArticleBySlug(ctx, 0, false, created.Slug)
	require.NoError(t, err)

	// 隐藏后对访客不可见，并从索引移除
	require.NoError(t, fx.svc.SetArticleHidden(ctx, 7, false, created.ID, true))
	_, err = fx.svc.GetArticleBySlug(ctx, 0, false, created.Slug)
	assert.ErrorIs(t, err, ErrArticleNotVisible)
	assert.Contains(t, fx.esRepo.deleted, created.ID)

	_, err = fx.svc.GetArticleBySlug(ctx, 0, false, "missing-slug")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestUniquifySlugEmptyTitle(t *testing.T) {
	fx := newArticleServiceFixture()

	created, err := fx.svc.CreateArticle(context.Background(), 7, &dto.ArticleCreateDTO{
		Title: "标题全是多字节", Content: "body", CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "untitled", created.Slug)
	assert.Equal(t, util.Slugify("标题全是多字节"), "")
}

func TestListPublishedFilters(t *testing.T) {
	fx := newArticleServiceFixture()
	ctx := context.Background()

	for i, title := range []string{"Go Tips", "Rust Tips", "Go Deep Dive"} {
		created, err := fx.svc.CreateArticle(ctx, 7, &dto.ArticleCreateDTO{
			Title: title, Content: "body", CategoryID: 1,
		})
		require.NoError(t, err)
		require.NoError(t, fx.svc.SubmitArticle(ctx, 7, created.ID))
		require.NoError(t, fx.svc.ApproveArticle(ctx, 100, created.ID))
		if i == 0 {
			fx.articleRepo.articles[created.ID].IsFeatured = true
		}
	}

	list, err := fx.svc.ListPublished(ctx, &dto.ArticleListQueryDTO{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)

	// 未知分类 slug
	_, err = fx.svc.ListPublished(ctx, &dto.ArticleListQueryDTO{Page: 1, PageSize: 20, Category: "no-such"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	list, err = fx.svc.ListPublished(ctx, &dto.ArticleListQueryDTO{Page: 1, PageSize: 20, Category: "engineering"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)

	featured, err := fx.svc.ListFeatured(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), featured.Total)
	assert.Equal(t, "Go Tips", featured.List[0].Title)
}

func TestSearchArticlesByTag(t *testing.T) {
	fx := newArticleServiceFixture()
	published := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fx.esRepo.tagResults = []*esrepo.ArticleES{
		{
			ID:                3,
			Title:             "Go Tips",
			Slug:              "go-tips",
			Excerpt:           "short",
			Tags:              []string{"golang"},
			AuthorDisplayName: "Ada",
			CategoryName:      "Engineering",
			PublishedAt:       &published,
		},
	}

	res, err := fx.svc.SearchArticlesByTag(context.Background(), "golang", 1, 20)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []string{"golang"}, fx.esRepo.tagQueries)
	assert.Equal(t, "go-tips", res[0].Slug)
	assert.Equal(t, "Ada", res[0].AuthorName)
	assert.Equal(t, "2026-08-01 10:00:00", res[0].PublishedAt)
}
