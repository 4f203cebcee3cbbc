package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleSvc service.ArticleService
	actionSvc  service.ArticleActionService
}

func NewArticleHandler(articleSvc service.ArticleService, actionSvc service.ArticleActionService) *ArticleHandler {
	return &ArticleHandler{
		articleSvc: articleSvc,
		actionSvc:  actionSvc,
	}
}

func isAdmin(c *gin.Context) bool {
	for _, role := range c.GetStringSlice("roles") {
		if role == consts.RoleAdmin {
			return true
		}
	}
	return false
}

func parseArticleID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

func (s *ArticleHandler) CreateArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ArticleCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	article, err := s.articleSvc.CreateArticle(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	var req dto.ArticleUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.articleSvc.UpdateArticle(c.Request.Context(), userID, articleID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SubmitArticle 作者将草稿或驳回稿提交审核
func (s *ArticleHandler) SubmitArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.articleSvc.SubmitArticle(c.Request.Context(), userID, articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ApproveArticle 审核通过，仅管理员
func (s *ArticleHandler) ApproveArticle(c *gin.Context) {
	reviewerID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.articleSvc.ApproveArticle(c.Request.Context(), reviewerID, articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RejectArticle 审核驳回，仅管理员
func (s *ArticleHandler) RejectArticle(c *gin.Context) {
	reviewerID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	var req dto.ArticleRejectDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.articleSvc.RejectArticle(c.Request.Context(), reviewerID, articleID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleHandler) HideArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.articleSvc.SetArticleHidden(c.Request.Context(), userID, isAdmin(c), articleID, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleHandler) UnhideArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.articleSvc.SetArticleHidden(c.Request.Context(), userID, isAdmin(c), articleID, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.articleSvc.DeleteArticle(c.Request.Context(), userID, isAdmin(c), articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetArticleBySlug 文章详情，对未登录读者也开放
func (s *ArticleHandler) GetArticleBySlug(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	slug := c.Param("slug")

	article, err := s.articleSvc.GetArticleBySlug(c.Request.Context(), viewerID, isAdmin(c), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 每次详情访问记一条阅读流水，失败不影响响应
	_ = s.actionSvc.TrackArticleView(c.Request.Context(), viewerID, article.ID)

	response.Success(c, article)
}

func (s *ArticleHandler) ListPublished(c *gin.Context) {
	var query dto.ArticleListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.articleSvc.ListPublished(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ArticleHandler) ListFeatured(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.articleSvc.ListFeatured(c.Request.Context(), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListMine 作者查看自己的文章，可按状态过滤
func (s *ArticleHandler) ListMine(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.ArticleListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	var status *int8
	if query.Status != "" {
		v, ok := consts.ArticleStatusFromName(query.Status)
		if !ok {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		status = &v
	}

	list, err := s.articleSvc.ListMine(c.Request.Context(), userID, status, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListPending 审核队列，仅管理员
func (s *ArticleHandler) ListPending(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.articleSvc.ListPending(c.Request.Context(), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ArticleHandler) SearchArticles(c *gin.Context) {
	var query dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	var (
		list []*dto.ArticleSearchDTO
		err  error
	)
	switch {
	case query.Tag != "":
		list, err = s.articleSvc.SearchArticlesByTag(c.Request.Context(), query.Tag, query.Page, query.PageSize)
	case query.Keyword != "":
		list, err = s.articleSvc.SearchArticles(c.Request.Context(), query.Keyword, query.Page, query.PageSize)
	default:
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
