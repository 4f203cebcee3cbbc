package handler

import (
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticleMetricHandler struct {
	metricSvc service.ArticleMetricService
}

func NewArticleMetricHandler(metricSvc service.ArticleMetricService) *ArticleMetricHandler {
	return &ArticleMetricHandler{
		metricSvc: metricSvc,
	}
}

// GetMetricsBy7Days 最近7天趋势，仅作者本人或管理员
func (s *ArticleMetricHandler) GetMetricsBy7Days(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	trend, err := s.metricSvc.GetArticleMetricsBy7Days(c.Request.Context(), articleID, userID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

// GetMetricsBy30Days 最近30天趋势，仅作者本人或管理员
func (s *ArticleMetricHandler) GetMetricsBy30Days(c *gin.Context) {
	userID := c.GetUint64("user_id")
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	trend, err := s.metricSvc.GetArticleMetricsBy30Days(c.Request.Context(), articleID, userID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

// TrackShare 分享打点，无需登录
func (s *ArticleMetricHandler) TrackShare(c *gin.Context) {
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	err := s.metricSvc.TrackShare(c.Request.Context(), articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
