package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ArticleActionHandler struct {
	actionSvc service.ArticleActionService
}

func NewArticleActionHandler(actionSvc service.ArticleActionService) *ArticleActionHandler {
	return &ArticleActionHandler{
		actionSvc: actionSvc,
	}
}

func (s *ArticleActionHandler) LikeArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.actionSvc.LikeArticle(c.Request.Context(), userID, articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleActionHandler) CancelLikeArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.actionSvc.CancelLikeArticle(c.Request.Context(), userID, articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.actionSvc.CreateComment(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ApproveComment 评论审核通过，仅管理员
func (s *ArticleActionHandler) ApproveComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err = s.actionSvc.ApproveComment(c.Request.Context(), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err = s.actionSvc.DeleteComment(c.Request.Context(), userID, isAdmin(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetComments 文章下已过审的评论树，一层回复
func (s *ArticleActionHandler) GetComments(c *gin.Context) {
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	comments, err := s.actionSvc.GetCommentsByArticleID(c.Request.Context(), articleID, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

// GetPendingComments 评论审核队列，仅管理员
func (s *ArticleActionHandler) GetPendingComments(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	comments, err := s.actionSvc.GetPendingComments(c.Request.Context(), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}
